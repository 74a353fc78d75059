// Package outline is the fold-aware tree behind the board outline.
//
// A Tree is built from path-like names, rendered to a flat sequence of text
// lines that respects each node's fold state, and asked what a given line
// means when the user activates it. Trees are rebuilt on every refresh; Merge
// carries fold decisions from the previous generation onto the new one.
package outline

import "fmt"

// NodeID identifies a node within one tree generation. IDs are stable across
// refreshes: groups are keyed by their path, leaves by their upstream record.
type NodeID string

// Kind discriminates the three node variants.
type Kind int

const (
	KindRoot  Kind = iota // the single top node of a tree
	KindGroup             // an intermediate path segment
	KindLeaf              // an upstream record
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindGroup:
		return "group"
	case KindLeaf:
		return "leaf"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Status is the fold state of a node.
type Status int

const (
	Folded Status = iota
	Unfolded
)

func (s Status) String() string {
	switch s {
	case Folded:
		return "folded"
	case Unfolded:
		return "unfolded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == Unfolded {
		return Folded
	}
	return Unfolded
}

// Node is one entry of a tree. The Tree owns every Node; Parent and Children
// only hold identifiers.
type Node struct {
	ID       NodeID
	Label    string
	Kind     Kind
	Parent   NodeID   // empty for the root
	Children []NodeID // insertion order
	Status   Status
	RecordID string // set for leaves only
	Depth    int    // 0 for the root

	line int    // row in the last render that emitted this node
	gen  uint64 // render generation that set line
}

func newNode(id NodeID, label string, kind Kind, parent NodeID, depth int) *Node {
	return &Node{
		ID:     id,
		Label:  label,
		Kind:   kind,
		Parent: parent,
		Status: Folded,
		Depth:  depth,
		line:   -1,
	}
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Foldable reports whether the node's status has any effect on rendering.
func (n *Node) Foldable() bool {
	switch n.Kind {
	case KindRoot, KindGroup:
		return true
	case KindLeaf:
		return false
	default:
		return false
	}
}

// clone returns a copy that shares no mutable state with n.
func (n *Node) clone() Node {
	c := *n
	c.Children = append([]NodeID(nil), n.Children...)
	return c
}
