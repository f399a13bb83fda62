package extract

import "github.com/gnana997/jsxextract/pkg/syntax"

// scopes records the names declared by each scope-creating node of a
// module. Names declared by the program itself (imports aside, which are
// not recorded) stay visible to an extracted component inserted at module
// level; every other binding has to be forwarded.
type scopes struct {
	tree  *syntax.Tree
	root  syntax.NodeID
	names map[syntax.NodeID]map[string]bool
}

func isFunctionLike(kind string) bool {
	switch kind {
	case "function_declaration", "function_expression", "function",
		"generator_function_declaration", "generator_function",
		"arrow_function", "method_definition":
		return true
	}
	return false
}

func isScope(kind string) bool {
	if isFunctionLike(kind) {
		return true
	}
	switch kind {
	case "program", "statement_block", "class_body", "for_statement",
		"for_in_statement", "catch_clause", "switch_body":
		return true
	}
	return false
}

// analyzeScopes collects every binding declared in the module rooted at root.
func analyzeScopes(t *syntax.Tree, root syntax.NodeID) *scopes {
	s := &scopes{
		tree:  t,
		root:  root,
		names: make(map[syntax.NodeID]map[string]bool),
	}
	t.Walk(root, func(id syntax.NodeID) syntax.WalkAction {
		kind := t.Kind(id)
		switch {
		case kind == "variable_declarator":
			s.declarePattern(s.enclosingScope(id), t.ChildByField(id, "name"))
		case isFunctionLike(kind):
			if name := t.ChildByField(id, "name"); name != syntax.NoNode && kind != "method_definition" {
				target := id
				if kind == "function_declaration" || kind == "generator_function_declaration" {
					target = s.enclosingScope(id)
				}
				s.declarePattern(target, name)
			}
			if param := t.ChildByField(id, "parameter"); param != syntax.NoNode {
				s.declarePattern(id, param)
			}
			if params := t.ChildByField(id, "parameters"); params != syntax.NoNode {
				for _, p := range t.NamedChildren(params) {
					s.declarePattern(id, p)
				}
			}
		case kind == "class_declaration":
			s.declarePattern(s.enclosingScope(id), t.ChildByField(id, "name"))
		case kind == "catch_clause":
			s.declarePattern(id, t.ChildByField(id, "parameter"))
		case kind == "for_in_statement":
			s.declarePattern(id, t.ChildByField(id, "left"))
		}
		return syntax.Descend
	})
	return s
}

// enclosingScope returns the nearest scope node strictly above id.
func (s *scopes) enclosingScope(id syntax.NodeID) syntax.NodeID {
	scope := s.tree.Ancestor(id, func(a syntax.NodeID) bool {
		return isScope(s.tree.Kind(a))
	})
	if scope == syntax.NoNode {
		return s.root
	}
	return scope
}

func (s *scopes) declare(scope syntax.NodeID, name string) {
	if s.names[scope] == nil {
		s.names[scope] = make(map[string]bool)
	}
	s.names[scope][name] = true
}

// declarePattern declares every identifier bound by a binding pattern,
// skipping default values and type annotations.
func (s *scopes) declarePattern(scope, pattern syntax.NodeID) {
	if pattern == syntax.NoNode {
		return
	}
	t := s.tree
	switch t.Kind(pattern) {
	case "identifier", "shorthand_property_identifier_pattern":
		s.declare(scope, t.Text(pattern))
	case "assignment_pattern", "object_assignment_pattern":
		s.declarePattern(scope, t.ChildByField(pattern, "left"))
	case "pair_pattern":
		s.declarePattern(scope, t.ChildByField(pattern, "value"))
	case "required_parameter", "optional_parameter":
		s.declarePattern(scope, t.ChildByField(pattern, "pattern"))
	case "object_pattern", "array_pattern", "rest_pattern":
		for _, c := range t.NamedChildren(pattern) {
			s.declarePattern(scope, c)
		}
	}
}

// resolve returns the scope that declares name as seen from ref, or NoNode
// when nothing in the module declares it (globals and imports).
func (s *scopes) resolve(ref syntax.NodeID, name string) syntax.NodeID {
	t := s.tree
	for cur := t.Parent(ref); cur != syntax.NoNode; cur = t.Parent(cur) {
		if s.names[cur][name] {
			return cur
		}
	}
	return syntax.NoNode
}

// moduleLevel reports whether scope is the program scope.
func (s *scopes) moduleLevel(scope syntax.NodeID) bool {
	return scope == s.root
}
