package outline

import "fmt"

// ActionKind is what activating a rendered row means.
type ActionKind int

const (
	ActionNone   ActionKind = iota // nothing at that row
	ActionFold                     // the node is folded; activating unfolds it
	ActionUnfold                   // the node is unfolded; activating folds it
	ActionWindow                   // the row is a hidden tree's root line
	ActionOpen                     // the row is a leaf record
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionFold:
		return "fold"
	case ActionUnfold:
		return "unfold"
	case ActionWindow:
		return "window"
	case ActionOpen:
		return "open"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// Action is a resolved row. NodeID is set for every kind but ActionNone;
// RecordID only for ActionOpen.
type Action struct {
	Kind     ActionKind
	NodeID   NodeID
	RecordID string
}

// Action resolves a row relative to this tree's rendered block, using the
// last render. Rows outside it resolve to ActionNone.
func (t *Tree) Action(row int) Action {
	if row < 0 || row >= len(t.rows) {
		return Action{}
	}
	if t.hidden {
		return Action{Kind: ActionWindow, NodeID: t.root}
	}

	n, ok := t.nodes[t.rows[row]]
	if !ok {
		return Action{}
	}
	switch n.Kind {
	case KindLeaf:
		return Action{Kind: ActionOpen, NodeID: n.ID, RecordID: n.RecordID}
	case KindRoot, KindGroup:
		if n.Status == Folded {
			return Action{Kind: ActionFold, NodeID: n.ID}
		}
		return Action{Kind: ActionUnfold, NodeID: n.ID}
	default:
		return Action{}
	}
}
