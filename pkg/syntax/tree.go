// Package syntax turns tree-sitter parse trees into an editable arena of
// nodes and renders them back to source text.
//
// A Tree is built once per extraction. Nodes are addressed by NodeID and
// keep parent and child links as indices, so ancestor searches and
// replacements never alias tree-sitter memory: the CST is closed as soon as
// the arena has been copied out of it.
package syntax

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// NodeID addresses a node inside one Tree.
type NodeID int

// NoNode is returned by searches that find nothing.
const NoNode NodeID = -1

// Node is one syntax node. Start and End are byte offsets, End exclusive.
type Node struct {
	Kind     string
	Field    string // field name under Parent, "" when unnamed
	Named    bool
	Start    int
	End      int
	Parent   NodeID
	Children []NodeID
}

type edit struct {
	text    string
	removed bool
}

// Tree is an arena of nodes over a source buffer plus pending edits.
type Tree struct {
	Source []byte
	Nodes  []Node
	Root   NodeID

	edits map[NodeID]edit
}

// fieldNames lists the grammar fields recorded on child nodes.
var fieldNames = []string{
	"name", "value", "object", "property", "function", "arguments",
	"parameters", "parameter", "pattern", "body", "left", "right", "key",
	"open_tag", "close_tag", "index", "constructor",
}

// newTree copies a tree-sitter CST into an arena.
func newTree(source []byte, root *ts.Node) *Tree {
	t := &Tree{
		Source: source,
		edits:  make(map[NodeID]edit),
	}
	t.Root = t.build(root, NoNode, "")
	return t
}

func (t *Tree) build(n *ts.Node, parent NodeID, field string) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{
		Kind:   n.Kind(),
		Field:  field,
		Named:  n.IsNamed(),
		Start:  int(n.StartByte()),
		End:    int(n.EndByte()),
		Parent: parent,
	})

	count := uint(n.ChildCount())
	if count == 0 {
		return id
	}
	fields := childFields(n)
	children := make([]NodeID, 0, count)
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		key := spanKey{child.Kind(), int(child.StartByte()), int(child.EndByte())}
		children = append(children, t.build(child, id, fields[key]))
	}
	t.Nodes[id].Children = children
	return id
}

type spanKey struct {
	kind       string
	start, end int
}

// childFields maps each field-bearing child of n to its field name.
func childFields(n *ts.Node) map[spanKey]string {
	fields := make(map[spanKey]string)
	for _, name := range fieldNames {
		child := n.ChildByFieldName(name)
		if child == nil {
			continue
		}
		key := spanKey{child.Kind(), int(child.StartByte()), int(child.EndByte())}
		if _, taken := fields[key]; !taken {
			fields[key] = name
		}
	}
	return fields
}

// Kind returns the node kind, or "" for NoNode.
func (t *Tree) Kind(id NodeID) string {
	if id == NoNode {
		return ""
	}
	return t.Nodes[id].Kind
}

// Parent returns the parent of id, or NoNode at the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	return t.Nodes[id].Parent
}

// Text returns the original source text spanned by id, ignoring edits.
func (t *Tree) Text(id NodeID) string {
	n := t.Nodes[id]
	return string(t.Source[n.Start:n.End])
}

// ChildByField returns the first child of id recorded under field.
func (t *Tree) ChildByField(id NodeID, field string) NodeID {
	for _, c := range t.Nodes[id].Children {
		if t.Nodes[c].Field == field {
			return c
		}
	}
	return NoNode
}

// ChildOfKind returns the first child of id with the given kind.
func (t *Tree) ChildOfKind(id NodeID, kind string) NodeID {
	for _, c := range t.Nodes[id].Children {
		if t.Nodes[c].Kind == kind {
			return c
		}
	}
	return NoNode
}

// NamedChildren returns the named children of id, skipping comments.
func (t *Tree) NamedChildren(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range t.Nodes[id].Children {
		if t.Nodes[c].Named && t.Nodes[c].Kind != "comment" {
			out = append(out, c)
		}
	}
	return out
}

// PrevSibling returns the sibling immediately before id, or NoNode.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	parent := t.Parent(id)
	if parent == NoNode {
		return NoNode
	}
	siblings := t.Nodes[parent].Children
	for i, c := range siblings {
		if c == id {
			if i == 0 {
				return NoNode
			}
			return siblings[i-1]
		}
	}
	return NoNode
}

// Contains reports whether inner's span lies within outer's span.
func (t *Tree) Contains(outer, inner NodeID) bool {
	o, i := t.Nodes[outer], t.Nodes[inner]
	return i.Start >= o.Start && i.End <= o.End
}

// InRange reports whether id's span lies within [start, end).
func (t *Tree) InRange(id NodeID, start, end int) bool {
	n := t.Nodes[id]
	return n.Start >= start && n.End <= end
}

// Ancestor returns the nearest proper ancestor of id satisfying match.
func (t *Tree) Ancestor(id NodeID, match func(NodeID) bool) NodeID {
	for cur := t.Parent(id); cur != NoNode; cur = t.Parent(cur) {
		if match(cur) {
			return cur
		}
	}
	return NoNode
}

// Walk visits id and its descendants in pre-order. The action returned by
// visit decides whether the node's children are visited.
func (t *Tree) Walk(id NodeID, visit func(NodeID) WalkAction) {
	t.walk(id, visit)
}

// WalkAction steers Walk.
type WalkAction int

const (
	// Descend continues into the node's children.
	Descend WalkAction = iota
	// SkipChildren continues with the next sibling.
	SkipChildren
	// Stop ends the walk.
	Stop
)

func (t *Tree) walk(id NodeID, visit func(NodeID) WalkAction) bool {
	switch visit(id) {
	case Stop:
		return false
	case SkipChildren:
		return true
	}
	for _, c := range t.Nodes[id].Children {
		if !t.walk(c, visit) {
			return false
		}
	}
	return true
}

// Replace substitutes text for id when the tree is rendered.
func (t *Tree) Replace(id NodeID, text string) {
	t.edits[id] = edit{text: text}
}

// Remove drops id, and the whitespace before it, from rendered output.
func (t *Tree) Remove(id NodeID) {
	t.edits[id] = edit{removed: true}
}

// Detached reports whether id or one of its ancestors has been replaced or
// removed, meaning id no longer appears in rendered output.
func (t *Tree) Detached(id NodeID) bool {
	for cur := id; cur != NoNode; cur = t.Parent(cur) {
		if _, ok := t.edits[cur]; ok {
			return true
		}
	}
	return false
}

// Render serializes id with all pending edits applied. Untouched regions
// keep their original text, so rendering an unedited node returns exactly
// its source span.
func (t *Tree) Render(id NodeID) string {
	var b strings.Builder
	t.render(&b, id)
	return b.String()
}

func (t *Tree) render(b *strings.Builder, id NodeID) {
	if e, ok := t.edits[id]; ok {
		if !e.removed {
			b.WriteString(e.text)
		}
		return
	}
	n := t.Nodes[id]
	pos := n.Start
	for _, c := range n.Children {
		child := t.Nodes[c]
		gap := t.Source[pos:child.Start]
		if e, ok := t.edits[c]; ok && e.removed {
			gap = trimTrailingSpace(gap)
		}
		b.Write(gap)
		t.render(b, c)
		pos = child.End
	}
	b.Write(t.Source[pos:n.End])
}

func trimTrailingSpace(b []byte) []byte {
	i := len(b)
	for i > 0 && isSpace(b[i-1]) {
		i--
	}
	return b[:i]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
