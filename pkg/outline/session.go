package outline

import "strings"

// Activation is how the user activated a row.
type Activation int

const (
	ActivateDefault Activation = iota // click, double-click, enter
	ActivateFold                      // explicit fold: move up to the parent
	ActivateUnfold                    // explicit unfold: move down to the first child
)

// Outcome describes what an activation did. Goto is an absolute row, or -1
// when the cursor should stay. Open carries a record id for leaf activations.
type Outcome struct {
	Action Action
	Tree   int
	Redraw bool
	Goto   int
	Open   string
}

func noOutcome() Outcome {
	return Outcome{Tree: -1, Goto: -1}
}

// Session is the state owned by the refresh/interaction loop: the trees
// currently on screen, stacked in one buffer, and where each one starts.
type Session struct {
	trees   []*Tree
	offsets []int
	lines   []Line
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Install replaces the session's trees with a freshly built generation.
// Fold state is merged from the trees being replaced and each tree keeps the
// hidden flag of the prior tree with the same root. The new trees are
// rendered before Install returns.
func (s *Session) Install(trees []*Tree) {
	prior := s.trees

	hidden := make(map[NodeID]bool, len(prior))
	for _, p := range prior {
		if _, seen := hidden[p.root]; !seen {
			hidden[p.root] = p.hidden
		}
	}

	installed := make([]*Tree, 0, len(trees))
	for _, t := range trees {
		if t == nil {
			continue
		}
		Merge(t, prior)
		if h, ok := hidden[t.root]; ok {
			t.hidden = h
		}
		installed = append(installed, t)
	}

	s.trees = installed
	s.Render()
}

// Trees returns the installed trees in display order.
func (s *Session) Trees() []*Tree {
	return s.trees
}

// Tree returns the i-th tree, or nil.
func (s *Session) Tree(i int) *Tree {
	if i < 0 || i >= len(s.trees) {
		return nil
	}
	return s.trees[i]
}

// Render re-renders every tree and returns the concatenated lines.
func (s *Session) Render() []Line {
	s.offsets = s.offsets[:0]
	s.lines = s.lines[:0]
	for _, t := range s.trees {
		s.offsets = append(s.offsets, len(s.lines))
		s.lines = append(s.lines, t.RenderLines()...)
	}
	return s.lines
}

// Lines returns the lines of the last render.
func (s *Session) Lines() []Line {
	return s.lines
}

// Text returns the last render as one newline-terminated block.
func (s *Session) Text() string {
	var b strings.Builder
	for _, l := range s.lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Size is the total number of rendered lines.
func (s *Session) Size() int {
	return len(s.lines)
}

// Offset returns the absolute row of the i-th tree's root line.
func (s *Session) Offset(i int) int {
	if i < 0 || i >= len(s.offsets) {
		return -1
	}
	return s.offsets[i]
}

// Locate translates an absolute row into a tree index and a row relative to
// that tree by walking the trees in order and subtracting their sizes.
func (s *Session) Locate(row int) (tree, rel int, ok bool) {
	if row < 0 {
		return -1, -1, false
	}
	rel = row
	for i, t := range s.trees {
		if rel < t.Size() {
			return i, rel, true
		}
		rel -= t.Size()
	}
	return -1, -1, false
}

// NodeAt returns the node rendered at an absolute row.
func (s *Session) NodeAt(row int) (Node, bool) {
	if row < 0 || row >= len(s.lines) {
		return Node{}, false
	}
	i, _, ok := s.Locate(row)
	if !ok {
		return Node{}, false
	}
	return s.trees[i].Node(s.lines[row].NodeID)
}

// Activate applies an activation at an absolute row. Rows that resolve to
// nothing produce an outcome with Tree == -1 and no side effects.
func (s *Session) Activate(row int, kind Activation) Outcome {
	i, rel, ok := s.Locate(row)
	if !ok {
		return noOutcome()
	}
	t := s.trees[i]
	act := t.Action(rel)
	if act.Kind == ActionNone {
		return noOutcome()
	}

	out := Outcome{Action: act, Tree: i, Goto: -1}
	var target NodeID

	switch kind {
	case ActivateDefault:
		switch act.Kind {
		case ActionWindow:
			t.ToggleHidden()
			out.Redraw = true
			target = t.root
		case ActionFold:
			t.SetStatus(act.NodeID, Unfolded)
			out.Redraw = true
		case ActionUnfold:
			t.SetStatus(act.NodeID, Folded)
			out.Redraw = true
		case ActionOpen:
			out.Open = act.RecordID
		}

	case ActivateFold:
		if act.Kind == ActionWindow {
			break
		}
		n := t.nodes[act.NodeID]
		if n.Parent == "" {
			t.hidden = true
			target = t.root
		} else {
			t.SetStatus(n.Parent, Unfolded)
			target = n.Parent
		}
		out.Redraw = true

	case ActivateUnfold:
		switch act.Kind {
		case ActionWindow:
			t.hidden = false
			out.Redraw = true
			target = t.root
		case ActionFold, ActionUnfold:
			n := t.nodes[act.NodeID]
			if !n.HasChildren() {
				break
			}
			if n.Status == Folded {
				n.Status = Unfolded
				out.Redraw = true
			}
			target = n.Children[0]
		}
	}

	if out.Redraw {
		s.Render()
	}
	if target != "" {
		if line, ok := t.LineOf(target); ok {
			out.Goto = s.offsets[i] + line
		}
	}
	return out
}

// ToggleHidden flips the hidden flag of the tree under an absolute row and
// re-renders. It returns the row of that tree's root line, or -1.
func (s *Session) ToggleHidden(row int) int {
	i, _, ok := s.Locate(row)
	if !ok {
		return -1
	}
	s.trees[i].ToggleHidden()
	s.Render()
	return s.offsets[i]
}

// ExpandAll unfolds every node of every tree and re-renders.
func (s *Session) ExpandAll() {
	for _, t := range s.trees {
		t.SetAll(Unfolded)
	}
	s.Render()
}

// CollapseAll folds every node of every tree and re-renders.
func (s *Session) CollapseAll() {
	for _, t := range s.trees {
		t.SetAll(Folded)
	}
	s.Render()
}

// Find returns the absolute row of the leaf carrying recordID, or -1 when it
// is not currently rendered.
func (s *Session) Find(recordID string) int {
	if recordID == "" {
		return -1
	}
	for i, t := range s.trees {
		if line, ok := t.LineOf(leafID(t.label, Entry{RecordID: recordID})); ok {
			return s.offsets[i] + line
		}
	}
	return -1
}
