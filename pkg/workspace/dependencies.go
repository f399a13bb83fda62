package workspace

import (
	"fmt"
	"sort"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/jsxextract/pkg/parser"
)

// moduleBinding is a name bound at the top level of a module, either by an
// import or by a declaration.
type moduleBinding struct {
	name string

	// Imports. stmt identifies the import statement the name came from.
	stmt      int
	module    string // specifier as written, quotes included
	typeOnly  bool
	isDefault bool
	namespace bool
	specifier string // named import as written: "a" or "a as b"

	// Declarations.
	local         bool
	exported      bool
	defaultExport bool
	stmtStart     int
}

// moveDependencies is what a component moved to its own file needs from the
// module it leaves.
type moveDependencies struct {
	// imports are the import statements the new file starts with.
	imports []string
	// exports are offsets of document statements that must gain "export ".
	exports []int
}

// componentDependencies finds the top-level bindings of document used by
// the component at [start, end) and works out the imports that carry them
// into the component's new file. Imports are copied from the document;
// declarations are imported from documentModule and exported from the
// document when they are not already.
//
// Shadowing inside the component is not tracked: a parameter that happens
// to share a top-level name yields an unused import at worst.
func componentDependencies(pm *parser.ParserManager, document string, grammar parser.Grammar, start, end int, name, documentModule string) (moveDependencies, error) {
	src := []byte(document)
	tree, err := pm.Parse(src, grammar)
	if err != nil {
		return moveDependencies{}, fmt.Errorf("failed to parse document: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	used := make(map[string]bool)
	collectNames(root, src, start, end, used)
	delete(used, name)

	var deps moveDependencies
	var local importGroup
	groups := make(map[int]*importGroup)
	var order []int
	exports := make(map[int]bool)

	for _, b := range moduleBindings(root, src, start, end) {
		if !used[b.name] {
			continue
		}
		if b.local {
			if b.defaultExport {
				local.defaultName = b.name
				continue
			}
			local.named = append(local.named, b.name)
			if !b.exported && !exports[b.stmtStart] {
				exports[b.stmtStart] = true
				deps.exports = append(deps.exports, b.stmtStart)
			}
			continue
		}

		g, ok := groups[b.stmt]
		if !ok {
			g = &importGroup{module: b.module, typeOnly: b.typeOnly}
			groups[b.stmt] = g
			order = append(order, b.stmt)
		}
		switch {
		case b.isDefault:
			g.defaultName = b.name
		case b.namespace:
			g.namespace = b.name
		default:
			g.named = append(g.named, b.specifier)
		}
	}

	for _, stmt := range order {
		deps.imports = append(deps.imports, groups[stmt].String())
	}
	if local.defaultName != "" || len(local.named) > 0 {
		local.module = fmt.Sprintf("%q", documentModule)
		deps.imports = append(deps.imports, local.String())
	}
	sort.Ints(deps.exports)
	return deps, nil
}

// importGroup renders the part of one import statement a moved component
// uses.
type importGroup struct {
	module      string
	typeOnly    bool
	defaultName string
	namespace   string
	named       []string
}

func (g importGroup) String() string {
	var parts []string
	if g.defaultName != "" {
		parts = append(parts, g.defaultName)
	}
	if g.namespace != "" {
		parts = append(parts, "* as "+g.namespace)
	}
	if len(g.named) > 0 {
		parts = append(parts, "{ "+strings.Join(g.named, ", ")+" }")
	}
	keyword := "import "
	if g.typeOnly {
		keyword = "import type "
	}
	return keyword + strings.Join(parts, ", ") + " from " + g.module + ";"
}

// collectNames records the identifiers read in [start, end). Property
// names are separate node kinds and never recorded.
func collectNames(node *ts.Node, src []byte, start, end int, names map[string]bool) {
	if int(node.EndByte()) <= start || int(node.StartByte()) >= end {
		return
	}
	switch node.Kind() {
	case "identifier", "type_identifier", "shorthand_property_identifier":
		names[node.Utf8Text(src)] = true
		return
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		collectNames(node.Child(i), src, start, end, names)
	}
}

// moduleBindings lists the top-level bindings of a module, skipping
// statements that overlap [skipStart, skipEnd).
func moduleBindings(root *ts.Node, src []byte, skipStart, skipEnd int) []moduleBinding {
	var bindings []moduleBinding
	listed := make(map[string]bool)

	for i := uint(0); i < uint(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if int(stmt.StartByte()) < skipEnd && int(stmt.EndByte()) > skipStart {
			continue
		}
		at := int(stmt.StartByte())

		switch stmt.Kind() {
		case "import_statement":
			bindings = append(bindings, importBindings(stmt, src)...)
		case "export_statement":
			decl := stmt.ChildByFieldName("declaration")
			if decl == nil {
				for _, name := range exportListNames(stmt, src) {
					listed[name] = true
				}
				continue
			}
			isDefault := hasToken(stmt, "default")
			for _, name := range declaredNames(decl, src) {
				bindings = append(bindings, moduleBinding{
					name:          name,
					local:         true,
					exported:      !isDefault,
					defaultExport: isDefault,
					stmtStart:     at,
				})
			}
		default:
			for _, name := range declaredNames(stmt, src) {
				bindings = append(bindings, moduleBinding{name: name, local: true, stmtStart: at})
			}
		}
	}

	for i := range bindings {
		if bindings[i].local && listed[bindings[i].name] {
			bindings[i].exported = true
		}
	}
	return bindings
}

// importBindings lists the names bound by one import statement.
func importBindings(stmt *ts.Node, src []byte) []moduleBinding {
	source := stmt.ChildByFieldName("source")
	if source == nil {
		return nil
	}
	base := moduleBinding{
		stmt:     int(stmt.StartByte()),
		module:   source.Utf8Text(src),
		typeOnly: hasToken(stmt, "type"),
	}

	var bindings []moduleBinding
	for i := uint(0); i < uint(stmt.NamedChildCount()); i++ {
		clause := stmt.NamedChild(i)
		if clause.Kind() != "import_clause" {
			continue
		}
		for j := uint(0); j < uint(clause.NamedChildCount()); j++ {
			part := clause.NamedChild(j)
			switch part.Kind() {
			case "identifier":
				b := base
				b.name, b.isDefault = part.Utf8Text(src), true
				bindings = append(bindings, b)
			case "namespace_import":
				if id := firstNamedOfKind(part, "identifier"); id != nil {
					b := base
					b.name, b.namespace = id.Utf8Text(src), true
					bindings = append(bindings, b)
				}
			case "named_imports":
				for k := uint(0); k < uint(part.NamedChildCount()); k++ {
					spec := part.NamedChild(k)
					if spec.Kind() != "import_specifier" {
						continue
					}
					local := spec.ChildByFieldName("alias")
					if local == nil {
						local = spec.ChildByFieldName("name")
					}
					if local == nil {
						continue
					}
					b := base
					b.name = local.Utf8Text(src)
					b.specifier = strings.Join(strings.Fields(spec.Utf8Text(src)), " ")
					bindings = append(bindings, b)
				}
			}
		}
	}
	return bindings
}

// declaredNames returns the names a top-level declaration binds.
// Destructuring declarations are not followed.
func declaredNames(decl *ts.Node, src []byte) []string {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration", "class_declaration",
		"abstract_class_declaration", "interface_declaration", "type_alias_declaration",
		"enum_declaration":
		if name := decl.ChildByFieldName("name"); name != nil {
			return []string{name.Utf8Text(src)}
		}
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := uint(0); i < uint(decl.NamedChildCount()); i++ {
			d := decl.NamedChild(i)
			if d.Kind() != "variable_declarator" {
				continue
			}
			if name := d.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
				names = append(names, name.Utf8Text(src))
			}
		}
		return names
	}
	return nil
}

// exportListNames returns the local names exported by `export { a, b as c }`.
// Re-exports from another module bind nothing locally.
func exportListNames(stmt *ts.Node, src []byte) []string {
	if stmt.ChildByFieldName("source") != nil {
		return nil
	}
	clause := firstNamedOfKind(stmt, "export_clause")
	if clause == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < uint(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec.Kind() != "export_specifier" {
			continue
		}
		if name := spec.ChildByFieldName("name"); name != nil {
			names = append(names, name.Utf8Text(src))
		}
	}
	return names
}

func hasToken(node *ts.Node, token string) bool {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if child := node.Child(i); !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

func firstNamedOfKind(node *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < uint(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}
