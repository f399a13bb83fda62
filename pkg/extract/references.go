package extract

import (
	"strings"

	"github.com/gnana997/jsxextract/pkg/syntax"
)

type refKind int

const (
	// refIdentifier is a bare identifier read.
	refIdentifier refKind = iota
	// refShorthand is an identifier used as a shorthand object property.
	refShorthand
	// refMember is a member access chain.
	refMember
	// refBoundMethod is this.<method>.bind(...) on the component instance.
	refBoundMethod
)

// candidate is a reference inside the selection to a value that lives
// outside it: component state or props, a local of the render body or of an
// enclosing function, or a method on the component instance.
type candidate struct {
	node syntax.NodeID
	kind refKind
	// name is the bare name forwarded by default: the identifier, the last
	// member segment, or the bound method's name.
	name string
	// expr is the compact source text of node.
	expr string
	// object is the text of the member's object expression.
	object string
	// onThis marks a member whose object is the bare instance (this.x).
	onThis bool
}

// reservedObjects are the aggregate objects that are never forwarded as a
// container group.
var reservedObjects = map[string]bool{
	"this.props": true,
	"this.state": true,
	"props":      true,
}

type referenceCollector struct {
	tree     *syntax.Tree
	scopes   *scopes
	selected syntax.NodeID
	start    int
	end      int
	found    []candidate
}

// collectReferences walks the enclosing component and returns, in traversal
// order, the references to values bound outside the selected element whose
// spans lie within [start, end).
func collectReferences(t *syntax.Tree, component, selected syntax.NodeID, start, end int) []candidate {
	c := &referenceCollector{
		tree:     t,
		scopes:   analyzeScopes(t, t.Root),
		selected: selected,
		start:    start,
		end:      end,
	}
	t.Walk(component, c.visit)
	return c.found
}

func (c *referenceCollector) visit(id syntax.NodeID) syntax.WalkAction {
	t := c.tree
	n := t.Nodes[id]
	if n.End <= c.start || n.Start >= c.end {
		return syntax.SkipChildren
	}
	if isJSXTagName(t, id) {
		return syntax.SkipChildren
	}

	switch n.Kind {
	case "member_expression":
		return c.visitMember(id)
	case "identifier":
		if isReferencePosition(t, id) && c.isOuter(id, t.Text(id)) {
			c.add(candidate{node: id, kind: refIdentifier, name: t.Text(id), expr: t.Text(id)})
		}
	case "shorthand_property_identifier":
		if c.isOuter(id, t.Text(id)) {
			c.add(candidate{node: id, kind: refShorthand, name: t.Text(id), expr: t.Text(id)})
		}
	}
	return syntax.Descend
}

// visitMember handles the outermost member expression of a chain.
func (c *referenceCollector) visitMember(id syntax.NodeID) syntax.WalkAction {
	t := c.tree
	root := chainRoot(t, id)

	switch t.Kind(root) {
	case "this":
		if call, method, ok := boundMethodCall(t, id); ok {
			c.add(candidate{node: call, kind: refBoundMethod, name: method, expr: compactText(t, call)})
			return syntax.SkipChildren
		}
	case "identifier":
		if !c.isOuter(root, t.Text(root)) {
			return syntax.SkipChildren
		}
	default:
		return syntax.Descend
	}

	target := id
	if isCallee(t, id) {
		target = stripMethodCall(t, id)
	}
	if t.Kind(target) == "identifier" {
		c.add(candidate{node: target, kind: refIdentifier, name: t.Text(target), expr: t.Text(target)})
		return syntax.SkipChildren
	}
	object := t.ChildByField(target, "object")
	c.add(candidate{
		node:   target,
		kind:   refMember,
		name:   t.Text(t.ChildByField(target, "property")),
		expr:   compactText(t, target),
		object: compactText(t, object),
		onThis: t.Kind(object) == "this",
	})
	return syntax.SkipChildren
}

// add keeps a candidate only when it lies inside the selection.
func (c *referenceCollector) add(cand candidate) {
	if !c.tree.InRange(cand.node, c.start, c.end) || !c.tree.Contains(c.selected, cand.node) {
		return
	}
	c.found = append(c.found, cand)
}

// isOuter reports whether name, read at ref, is bound outside the selected
// element by something other than the module itself: the component body,
// its parameters, or a function enclosing the component.
func (c *referenceCollector) isOuter(ref syntax.NodeID, name string) bool {
	scope := c.scopes.resolve(ref, name)
	if scope == syntax.NoNode || c.scopes.moduleLevel(scope) {
		return false
	}
	return !c.tree.Contains(c.selected, scope)
}

// chainRoot descends through the object of nested member expressions.
func chainRoot(t *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	for t.Kind(id) == "member_expression" {
		id = t.ChildByField(id, "object")
	}
	return id
}

// isCallee reports whether id is the function of a call expression.
func isCallee(t *syntax.Tree, id syntax.NodeID) bool {
	parent := t.Parent(id)
	return t.Kind(parent) == "call_expression" && t.ChildByField(parent, "function") == id
}

// stripMethodCall turns the callee of a method call on a value (items.map,
// this.state.items.filter) into the value itself. Calls made directly on
// the instance or on a reserved aggregate (this.save(), props.onClose())
// keep the whole callee, since the callee is the value being forwarded.
func stripMethodCall(t *syntax.Tree, callee syntax.NodeID) syntax.NodeID {
	object := t.ChildByField(callee, "object")
	switch t.Kind(object) {
	case "identifier", "member_expression":
		if reservedObjects[compactText(t, object)] {
			return callee
		}
		return object
	}
	return callee
}

// boundMethodCall matches this.<method>.bind(...) with member as the
// callee and returns the call node and the method name.
func boundMethodCall(t *syntax.Tree, member syntax.NodeID) (syntax.NodeID, string, bool) {
	if t.Text(t.ChildByField(member, "property")) != "bind" || !isCallee(t, member) {
		return syntax.NoNode, "", false
	}
	method := t.ChildByField(member, "object")
	if t.Kind(method) != "member_expression" || t.Kind(t.ChildByField(method, "object")) != "this" {
		return syntax.NoNode, "", false
	}
	return t.Parent(member), t.Text(t.ChildByField(method, "property")), true
}

// compactText renders member chains without incidental whitespace so that
// "this.state\n  .user" and "this.state.user" compare equal. Other nodes
// return their source text.
func compactText(t *syntax.Tree, id syntax.NodeID) string {
	switch t.Kind(id) {
	case "member_expression":
		sep := "."
		if t.ChildOfKind(id, "optional_chain") != syntax.NoNode {
			sep = "?."
		}
		return compactText(t, t.ChildByField(id, "object")) + sep + t.Text(t.ChildByField(id, "property"))
	case "call_expression":
		return strings.Join(strings.Fields(t.Text(id)), " ")
	}
	return t.Text(id)
}

// isJSXTagName matches the element name of an opening, closing or
// self-closing tag.
func isJSXTagName(t *syntax.Tree, id syntax.NodeID) bool {
	if t.Nodes[id].Field != "name" {
		return false
	}
	switch t.Kind(t.Parent(id)) {
	case "jsx_opening_element", "jsx_closing_element", "jsx_self_closing_element":
		return true
	}
	return false
}

// isReferencePosition reports whether an identifier is read rather than
// declared at its position.
func isReferencePosition(t *syntax.Tree, id syntax.NodeID) bool {
	parent := t.Parent(id)
	field := t.Nodes[id].Field
	switch t.Kind(parent) {
	case "variable_declarator", "function_declaration", "function_expression", "function",
		"generator_function_declaration", "generator_function", "class_declaration", "class",
		"method_definition":
		return field != "name"
	case "arrow_function":
		return field != "parameter"
	case "formal_parameters", "array_pattern", "rest_pattern", "object_pattern":
		return false
	case "assignment_pattern", "object_assignment_pattern":
		return field != "left"
	case "pair_pattern":
		return field != "value"
	case "required_parameter", "optional_parameter":
		return field != "pattern"
	case "catch_clause":
		return field != "parameter"
	case "for_in_statement":
		return field != "left"
	case "import_specifier", "import_clause", "namespace_import", "export_specifier":
		return false
	}
	return true
}
