package extract

import (
	"strings"

	"github.com/gnana997/jsxextract/pkg/syntax"
)

// findSelectedNode returns the first JSX element, in pre-order, whose span
// lies within [start, end).
func findSelectedNode(t *syntax.Tree, start, end int) syntax.NodeID {
	selected := syntax.NoNode
	t.Walk(t.Root, func(id syntax.NodeID) syntax.WalkAction {
		n := t.Nodes[id]
		if n.End <= start || n.Start >= end {
			return syntax.SkipChildren
		}
		if syntax.IsMarkupElement(n.Kind) && t.InRange(id, start, end) {
			selected = id
			return syntax.Stop
		}
		return syntax.Descend
	})
	return selected
}

// isComponentDeclaration matches the declarations that can define the
// component around a selection.
func isComponentDeclaration(kind string) bool {
	switch kind {
	case "class_declaration", "variable_declarator", "function_declaration":
		return true
	}
	return false
}

// isDefaultExportDeclaration matches anonymous classes and functions that
// are the value of `export default`; tree-sitter parses them as
// expressions.
func isDefaultExportDeclaration(t *syntax.Tree, id syntax.NodeID) bool {
	switch t.Kind(id) {
	case "class", "function_expression", "function", "arrow_function":
		return t.Kind(t.Parent(id)) == "export_statement"
	}
	return false
}

// findEnclosingComponent walks up from the selected element to the nearest
// class declaration, variable declarator, function declaration or default
// exported class or function.
func findEnclosingComponent(t *syntax.Tree, selected syntax.NodeID) syntax.NodeID {
	return t.Ancestor(selected, func(id syntax.NodeID) bool {
		return isComponentDeclaration(t.Kind(id)) || isDefaultExportDeclaration(t, id)
	})
}

// declarationStatement climbs from a component declaration to the statement
// that holds it: the lexical declaration around a declarator and any export
// wrapper.
func declarationStatement(t *syntax.Tree, decl syntax.NodeID) syntax.NodeID {
	stmt := decl
	if t.Kind(stmt) == "variable_declarator" {
		if p := t.Parent(stmt); p != syntax.NoNode {
			stmt = p
		}
	}
	if p := t.Parent(stmt); t.Kind(p) == "export_statement" {
		stmt = p
	}
	return stmt
}

// componentStartAt returns the offset before which the new component is
// inserted: the start of the declaration's statement, or of the first
// comment in the block of comments directly above it.
func componentStartAt(t *syntax.Tree, decl syntax.NodeID) int {
	stmt := declarationStatement(t, decl)
	at := t.Nodes[stmt].Start

	cur := stmt
	for {
		prev := t.PrevSibling(cur)
		if prev == syntax.NoNode || t.Kind(prev) != "comment" {
			break
		}
		gap := string(t.Source[t.Nodes[prev].End:t.Nodes[cur].Start])
		if strings.TrimSpace(gap) != "" || trailsCode(t, prev) {
			break
		}
		at = t.Nodes[prev].Start
		cur = prev
	}
	return at
}

// trailsCode reports whether comment shares its line with preceding code,
// making it a trailing comment of that code rather than a leading comment.
func trailsCode(t *syntax.Tree, comment syntax.NodeID) bool {
	start := t.Nodes[comment].Start
	lineStart := strings.LastIndexByte(string(t.Source[:start]), '\n') + 1
	return strings.TrimSpace(string(t.Source[lineStart:start])) != ""
}
