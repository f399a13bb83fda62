package syntax

import (
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/jsxextract/pkg/parser"
)

// ParseError reports malformed module source. Line and Column are 1-based.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Reason)
}

// ParseModule parses a whole module. Unlike tree-sitter itself it is strict:
// any ERROR or MISSING node in the CST yields a *ParseError.
func ParseModule(pm *parser.ParserManager, source []byte, grammar parser.Grammar) (*Tree, error) {
	tree, err := pm.Parse(source, grammar)
	if err != nil {
		return nil, fmt.Errorf("parse module: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(firstError(root))
	}
	return newTree(source, root), nil
}

// ParseMarkup parses text as one standalone markup element. It fails softly:
// the result is nil unless text, ignoring surrounding whitespace, is exactly
// one JSX element with no syntax errors.
func ParseMarkup(pm *parser.ParserManager, text string, grammar parser.Grammar) (*Tree, NodeID) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed[0] != '<' {
		return nil, NoNode
	}
	tree, err := pm.Parse([]byte(trimmed), grammar)
	if err != nil {
		return nil, NoNode
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, NoNode
	}
	t := newTree([]byte(trimmed), root)

	statements := t.NamedChildren(t.Root)
	if len(statements) != 1 || t.Kind(statements[0]) != "expression_statement" {
		return nil, NoNode
	}
	stmt := statements[0]
	exprs := t.NamedChildren(stmt)
	if len(exprs) != 1 || !IsMarkupElement(t.Kind(exprs[0])) {
		return nil, NoNode
	}
	// Reject trailing tokens such as ";" that belong to the statement.
	if t.Nodes[exprs[0]].Start != 0 || t.Nodes[exprs[0]].End != len(trimmed) {
		return nil, NoNode
	}
	return t, exprs[0]
}

// IsMarkupElement reports whether kind is a JSX element node.
func IsMarkupElement(kind string) bool {
	return kind == "jsx_element" || kind == "jsx_self_closing_element"
}

func firstError(n *ts.Node) *ts.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return n
}

func newParseError(n *ts.Node) *ParseError {
	pos := n.StartPosition()
	reason := "unexpected syntax"
	if n.IsMissing() {
		reason = fmt.Sprintf("missing %s", n.Kind())
	}
	return &ParseError{
		Offset: int(n.StartByte()),
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
		Reason: reason,
	}
}
