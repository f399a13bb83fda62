package syntax

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsxextract/pkg/parser"
)

func newTestManager(t *testing.T) *parser.ParserManager {
	t.Helper()
	pm := parser.NewParserManager(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	t.Cleanup(func() { pm.Close() })
	return pm
}

var jsx = parser.GrammarFor(parser.LanguageJavaScript, false)

// find returns the first node of kind whose text is text.
func find(t *Tree, kind, text string) NodeID {
	found := NoNode
	t.Walk(t.Root, func(id NodeID) WalkAction {
		if t.Kind(id) == kind && t.Text(id) == text {
			found = id
			return Stop
		}
		return Descend
	})
	return found
}

func TestParseModuleBuildsArena(t *testing.T) {
	pm := newTestManager(t)

	source := `const App = () => <div className="a">{user.name}</div>;`
	tree, err := ParseModule(pm, []byte(source), jsx)
	require.NoError(t, err)

	assert.Equal(t, "program", tree.Kind(tree.Root))
	assert.Equal(t, NoNode, tree.Parent(tree.Root))
	assert.Equal(t, source, tree.Render(tree.Root))

	member := find(tree, "member_expression", "user.name")
	require.NotEqual(t, NoNode, member)
	assert.Equal(t, "user", tree.Text(tree.ChildByField(member, "object")))
	assert.Equal(t, "name", tree.Text(tree.ChildByField(member, "property")))

	decl := tree.Ancestor(member, func(id NodeID) bool {
		return tree.Kind(id) == "variable_declarator"
	})
	require.NotEqual(t, NoNode, decl)
	assert.Equal(t, "App", tree.Text(tree.ChildByField(decl, "name")))
	assert.True(t, tree.Contains(decl, member))
	assert.False(t, tree.Contains(member, decl))
}

func TestRenderAppliesEdits(t *testing.T) {
	pm := newTestManager(t)

	source := `const el = <li key={item.id} title="t">{item.label}</li>;`
	tree, err := ParseModule(pm, []byte(source), jsx)
	require.NoError(t, err)

	element := find(tree, "jsx_element", `<li key={item.id} title="t">{item.label}</li>`)
	require.NotEqual(t, NoNode, element)

	label := find(tree, "member_expression", "item.label")
	tree.Replace(label, "props.label")

	opening := tree.ChildOfKind(element, "jsx_opening_element")
	var key NodeID = NoNode
	for _, c := range tree.Nodes[opening].Children {
		if tree.Kind(c) == "jsx_attribute" && tree.Text(c) == "key={item.id}" {
			key = c
		}
	}
	require.NotEqual(t, NoNode, key)
	tree.Remove(key)

	assert.Equal(t, `<li title="t">{props.label}</li>`, tree.Render(element))
	assert.True(t, tree.Detached(label))
	assert.True(t, tree.Detached(find(tree, "member_expression", "item.id")))
	assert.False(t, tree.Detached(element))
}

func TestParseModuleReportsErrors(t *testing.T) {
	pm := newTestManager(t)

	_, err := ParseModule(pm, []byte("const ok = 1;\nconst = ;\n"), jsx)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Contains(t, parseErr.Error(), "parse error at 2:")
}

func TestParseMarkup(t *testing.T) {
	pm := newTestManager(t)

	testCases := []struct {
		name string
		text string
		kind string
	}{
		{"element", `<div>{count}</div>`, "jsx_element"},
		{"self closing", `<Foo bar={1} />`, "jsx_self_closing_element"},
		{"surrounding whitespace", "\n  <p>hi</p>\n", "jsx_element"},
		{"text run", `Hello`, ""},
		{"two siblings", `<a/><b/>`, ""},
		{"trailing semicolon", `<a/>;`, ""},
		{"unbalanced", `<div>`, ""},
		{"expression", `a < b`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree, id := ParseMarkup(pm, tc.text, jsx)
			if tc.kind == "" {
				assert.Nil(t, tree)
				assert.Equal(t, NoNode, id)
				return
			}
			require.NotNil(t, tree)
			assert.Equal(t, tc.kind, tree.Kind(id))
		})
	}
}

func TestIsMarkupFragment(t *testing.T) {
	testCases := []struct {
		text string
		want bool
	}{
		{`<div>{count}</div>`, true},
		{`<Foo />`, true},
		{`<Foo bar={a > b} />`, true},
		{`<a href="x>y">link</a>`, true},
		{`text <b>bold</b> text`, true},
		{`<ul><li>one`, false},
		{`Hello`, false},
		{`a < b && c > d`, false},
		{``, false},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, IsMarkupFragment(tc.text))
		})
	}
}
