package extract

import (
	"strings"

	"github.com/gnana997/jsxextract/pkg/syntax"
)

// keyProp is the reserved name for a key attribute lifted off the
// selection root.
const keyProp = "key"

// Prop is one property forwarded to the extracted component.
type Prop struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// propsMap keeps forwarded props in registration order.
type propsMap struct {
	order  []string
	values map[string]string
}

func newPropsMap() *propsMap {
	return &propsMap{values: make(map[string]string)}
}

func (m *propsMap) has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// set registers name once; later registrations of the same name are ignored.
func (m *propsMap) set(name, value string) {
	if m.has(name) {
		return
	}
	m.order = append(m.order, name)
	m.values[name] = value
}

// uniqueName returns name if it is free or already maps to expr, otherwise
// prefixes "_" until it is.
func (m *propsMap) uniqueName(name, expr string) string {
	for {
		value, ok := m.values[name]
		if !ok || value == expr {
			return name
		}
		name = "_" + name
	}
}

func (m *propsMap) list() []Prop {
	props := make([]Prop, 0, len(m.order))
	for _, name := range m.order {
		props = append(props, Prop{Name: name, Value: m.values[name]})
	}
	return props
}

// extractKeyAttribute removes a key attribute from the root element and
// returns its value expression.
func extractKeyAttribute(t *syntax.Tree, root syntax.NodeID) (string, bool) {
	tag := root
	switch t.Kind(root) {
	case "jsx_element":
		tag = t.ChildOfKind(root, "jsx_opening_element")
	case "jsx_self_closing_element":
	default:
		return "", false
	}
	if tag == syntax.NoNode {
		return "", false
	}

	for _, attr := range t.Nodes[tag].Children {
		if t.Kind(attr) != "jsx_attribute" {
			continue
		}
		named := t.NamedChildren(attr)
		if len(named) == 0 || t.Text(named[0]) != keyProp {
			continue
		}
		value := "true"
		if len(named) > 1 {
			value = attributeValue(t, named[1])
		}
		t.Remove(attr)
		return value, true
	}
	return "", false
}

// attributeValue unwraps {expr} containers; other values keep their text.
func attributeValue(t *syntax.Tree, value syntax.NodeID) string {
	if t.Kind(value) == "jsx_expression" {
		if inner := t.NamedChildren(value); len(inner) > 0 {
			return t.Render(inner[0])
		}
	}
	return t.Render(value)
}

// synthesizer assigns prop names to candidates and rewrites each candidate
// to read from the extracted component's props.
type synthesizer struct {
	tree       *syntax.Tree
	props      *propsMap
	groups     []containerGroup
	groupNames map[string]string
	class      bool
}

func newSynthesizer(t *syntax.Tree, groups []containerGroup, class bool) *synthesizer {
	return &synthesizer{
		tree:       t,
		props:      newPropsMap(),
		groups:     groups,
		groupNames: make(map[string]string),
		class:      class,
	}
}

// apply names and substitutes every candidate still attached to the tree.
// Reads inside a lifted key attribute are detached and skipped here, after
// they have already counted towards container groups.
func (s *synthesizer) apply(cands []candidate) {
	for _, c := range cands {
		if s.tree.Detached(c.node) {
			continue
		}
		name := s.assign(c)
		s.tree.Replace(c.node, s.access(c, name))
	}
}

func (s *synthesizer) assign(c candidate) string {
	if c.kind == refMember {
		if g, ok := matchGroup(s.groups, c.expr); ok {
			return routeInGroup(s.groupName(g), g, c.expr)
		}
	}
	name := s.props.uniqueName(c.name, c.expr)
	s.props.set(name, c.expr)
	return name
}

// groupName registers a group's base object once and returns its prop name.
func (s *synthesizer) groupName(g containerGroup) string {
	if name, ok := s.groupNames[g.Object]; ok {
		return name
	}
	name := s.props.uniqueName(g.Property, g.Object)
	s.props.set(name, g.Object)
	s.groupNames[g.Object] = name
	return name
}

// access builds the expression that replaces a candidate.
func (s *synthesizer) access(c candidate, name string) string {
	base := "props."
	if s.class {
		base = "this.props."
	}
	if c.kind == refShorthand {
		return c.name + ": " + base + name
	}
	return base + name
}

// propsReferenced reports whether rendered component source mentions props.
func propsReferenced(body string) bool {
	return strings.Contains(body, "props")
}
