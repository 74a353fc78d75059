package outline

import (
	"strings"

	"github.com/vanderheijden86/kbtree/pkg/metrics"
)

// Separator splits a path-like name into segments.
const Separator = "/"

// Line markers. Groups and the root show their fold state, leaves a bullet.
const (
	markerFolded   = "▸ "
	markerUnfolded = "▾ "
	markerLeaf     = "• "
	indentUnit     = "  "
)

// Entry is one path-like name plus the upstream record it stands for.
// An empty RecordID makes the full name act as the record identifier.
type Entry struct {
	Name     string
	RecordID string
}

// Line is one rendered row with the node it belongs to.
type Line struct {
	Text   string
	NodeID NodeID
	Kind   Kind
	Depth  int
	Status Status
}

// Tree is one self-contained outline: a root, its nodes, fold state and the
// tree-level hidden flag.
type Tree struct {
	label  string
	root   NodeID
	nodes  map[NodeID]*Node
	hidden bool

	// Last render.
	rows []NodeID
	gen  uint64
}

// Build constructs a tree under a root labelled rootLabel. Each entry name is
// split on Separator; one group node is created per prefix and a leaf for the
// final segment. Empty names and names with empty segments are skipped.
// Every root and group starts folded.
func Build(rootLabel string, entries []Entry) *Tree {
	defer metrics.Timer(metrics.TreeBuild)()

	t := &Tree{
		label: rootLabel,
		root:  rootID(rootLabel),
		nodes: make(map[NodeID]*Node, len(entries)+1),
	}
	t.nodes[t.root] = newNode(t.root, rootLabel, KindRoot, "", 0)

	for _, e := range entries {
		segs, ok := splitPath(e.Name)
		if !ok {
			continue
		}

		parent := t.root
		var prefix strings.Builder
		for i, seg := range segs[:len(segs)-1] {
			if i > 0 {
				prefix.WriteString(Separator)
			}
			prefix.WriteString(seg)

			id := groupID(rootLabel, prefix.String())
			if _, exists := t.nodes[id]; !exists {
				t.add(newNode(id, seg, KindGroup, parent, i+1))
			}
			parent = id
		}

		record := e.RecordID
		if record == "" {
			record = e.Name
		}
		id := leafID(rootLabel, e)
		if _, exists := t.nodes[id]; exists {
			continue
		}
		leaf := newNode(id, segs[len(segs)-1], KindLeaf, parent, len(segs))
		leaf.RecordID = record
		t.add(leaf)
	}

	return t
}

// BuildNames is Build for bare names without upstream record identifiers.
func BuildNames(rootLabel string, names ...string) *Tree {
	entries := make([]Entry, len(names))
	for i, n := range names {
		entries[i] = Entry{Name: n}
	}
	return Build(rootLabel, entries)
}

func (t *Tree) add(n *Node) {
	t.nodes[n.ID] = n
	if p, ok := t.nodes[n.Parent]; ok {
		p.Children = append(p.Children, n.ID)
	}
}

func splitPath(name string) ([]string, bool) {
	if name == "" {
		return nil, false
	}
	segs := strings.Split(name, Separator)
	for _, s := range segs {
		if s == "" {
			return nil, false
		}
	}
	return segs, true
}

func rootID(label string) NodeID {
	return NodeID("root:" + label)
}

func groupID(rootLabel, prefix string) NodeID {
	return NodeID("path:" + rootLabel + Separator + prefix)
}

func leafID(rootLabel string, e Entry) NodeID {
	if e.RecordID != "" {
		return NodeID("rec:" + e.RecordID)
	}
	return NodeID("leaf:" + rootLabel + Separator + e.Name)
}

// Label returns the root label.
func (t *Tree) Label() string {
	return t.label
}

// Root returns the root node identifier.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Has reports whether the tree contains id.
func (t *Tree) Has(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// IDs returns every node id in pre-order, ignoring fold state.
func (t *Tree) IDs() []NodeID {
	ids := make([]NodeID, 0, len(t.nodes))
	var walk func(id NodeID)
	walk = func(id NodeID) {
		ids = append(ids, id)
		for _, c := range t.nodes[id].Children {
			walk(c)
		}
	}
	walk(t.root)
	return ids
}

// Hidden reports whether the whole tree is collapsed to its root line.
func (t *Tree) Hidden() bool {
	return t.hidden
}

// SetHidden sets the tree-level hidden flag. Node fold states are untouched.
func (t *Tree) SetHidden(hidden bool) {
	t.hidden = hidden
}

// ToggleHidden flips the tree-level hidden flag.
func (t *Tree) ToggleHidden() {
	t.hidden = !t.hidden
}

// Status returns the fold state of id.
func (t *Tree) Status(id NodeID) (Status, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Folded, false
	}
	return n.Status, true
}

// SetStatus sets the fold state of id. It reports false for unknown ids.
func (t *Tree) SetStatus(id NodeID, s Status) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	n.Status = s
	return true
}

// Toggle flips the fold state of id.
func (t *Tree) Toggle(id NodeID) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	n.Status = n.Status.Toggle()
	return true
}

// SetAll sets every foldable node to s.
func (t *Tree) SetAll(s Status) {
	for _, n := range t.nodes {
		if n.Foldable() {
			n.Status = s
		}
	}
}

// Size is the number of lines produced by the last render.
func (t *Tree) Size() int {
	return len(t.rows)
}

// LineOf returns the row the node occupied in the last render. It reports false
// when the last render did not emit the node.
func (t *Tree) LineOf(id NodeID) (int, bool) {
	n, ok := t.nodes[id]
	if !ok || t.gen == 0 || n.gen != t.gen {
		return -1, false
	}
	return n.line, true
}

// Render returns the tree as text lines and records each emitted node's row.
func (t *Tree) Render() []string {
	lines := t.RenderLines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

// RenderLines is Render with the node behind each line.
func (t *Tree) RenderLines() []Line {
	defer metrics.Timer(metrics.OutlineRender)()

	t.gen++
	t.rows = t.rows[:0]
	lines := make([]Line, 0, cap(t.rows))

	root := t.nodes[t.root]
	if t.hidden {
		return t.emit(lines, root)
	}

	var walk func(n *Node)
	walk = func(n *Node) {
		lines = t.emit(lines, n)
		if n.Status != Unfolded {
			return
		}
		for _, c := range n.Children {
			walk(t.nodes[c])
		}
	}
	walk(root)
	return lines
}

func (t *Tree) emit(lines []Line, n *Node) []Line {
	n.line = len(t.rows)
	n.gen = t.gen
	t.rows = append(t.rows, n.ID)
	return append(lines, Line{
		Text:   t.format(n),
		NodeID: n.ID,
		Kind:   n.Kind,
		Depth:  n.Depth,
		Status: n.Status,
	})
}

func (t *Tree) format(n *Node) string {
	var marker string
	switch n.Kind {
	case KindLeaf:
		marker = markerLeaf
	case KindRoot:
		marker = markerUnfolded
		if t.hidden || n.Status == Folded {
			marker = markerFolded
		}
	case KindGroup:
		marker = markerUnfolded
		if n.Status == Folded {
			marker = markerFolded
		}
	}
	return strings.Repeat(indentUnit, n.Depth) + marker + n.Label
}
