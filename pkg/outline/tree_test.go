package outline

import (
	"reflect"
	"strings"
	"testing"
)

func boardTree() *Tree {
	return Build("Board", []Entry{
		{Name: "ColA/Task1", RecordID: "1"},
		{Name: "ColA/Task2", RecordID: "2"},
		{Name: "ColB/Task3", RecordID: "3"},
	})
}

func labels(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimLeft(l.Text, " ▸▾• ")
	}
	return out
}

// TestBuildStructure verifies groups are shared per prefix and leaves carry records
func TestBuildStructure(t *testing.T) {
	tree := boardTree()

	if tree.Len() != 6 {
		t.Fatalf("expected 6 nodes (root, 2 groups, 3 leaves), got %d", tree.Len())
	}

	root, ok := tree.Node(tree.Root())
	if !ok || root.Kind != KindRoot {
		t.Fatalf("expected root node, got %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected root to have 2 children, got %d", len(root.Children))
	}

	colA, _ := tree.Node(root.Children[0])
	if colA.Label != "ColA" || colA.Kind != KindGroup {
		t.Errorf("expected first child group ColA, got %q (%s)", colA.Label, colA.Kind)
	}
	if len(colA.Children) != 2 {
		t.Errorf("expected ColA to have 2 children, got %d", len(colA.Children))
	}

	task1, _ := tree.Node(colA.Children[0])
	if task1.Kind != KindLeaf || task1.RecordID != "1" || task1.Label != "Task1" {
		t.Errorf("unexpected leaf %+v", task1)
	}
	if task1.Parent != colA.ID {
		t.Errorf("expected Task1 parent %s, got %s", colA.ID, task1.Parent)
	}
	if task1.Depth != 2 {
		t.Errorf("expected Task1 depth 2, got %d", task1.Depth)
	}
}

// TestBuildDefaults verifies every node starts folded and the tree visible
func TestBuildDefaults(t *testing.T) {
	tree := boardTree()
	if tree.Hidden() {
		t.Error("new tree should not be hidden")
	}
	for _, id := range tree.IDs() {
		if s, _ := tree.Status(id); s != Folded {
			t.Errorf("node %s: expected folded, got %s", id, s)
		}
	}
}

func TestBuildSkipsMalformedNames(t *testing.T) {
	tree := BuildNames("Board", "", "/", "a//b", "/lead", "trail/", "ok")
	if tree.Len() != 2 {
		t.Fatalf("expected root plus one leaf, got %d nodes: %v", tree.Len(), tree.IDs())
	}
	root, _ := tree.Node(tree.Root())
	leaf, _ := tree.Node(root.Children[0])
	if leaf.Label != "ok" || leaf.RecordID != "ok" {
		t.Errorf("unexpected leaf %+v", leaf)
	}
}

func TestBuildDuplicatesAreIdempotent(t *testing.T) {
	tree := BuildNames("Board", "ColA/x", "ColA/x", "ColA/y")
	if tree.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d: %v", tree.Len(), tree.IDs())
	}

	// Same title, different records: both leaves survive.
	tree = Build("Board", []Entry{
		{Name: "ColA/Same", RecordID: "10"},
		{Name: "ColA/Same", RecordID: "11"},
		{Name: "ColA/Same", RecordID: "10"},
	})
	if tree.Len() != 4 {
		t.Fatalf("expected root, group and 2 leaves, got %d", tree.Len())
	}
}

func TestBuildDeepPaths(t *testing.T) {
	tree := BuildNames("R", "a/b/c/d")
	tree.SetAll(Unfolded)
	got := tree.Render()
	want := []string{
		"▾ R",
		"  ▾ a",
		"    ▾ b",
		"      ▾ c",
		"        • d",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("render mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestBuildGroupIDsScopedByRoot(t *testing.T) {
	a := BuildNames("Lane 1", "Backlog/x")
	b := BuildNames("Lane 2", "Backlog/y")
	ra, _ := a.Node(a.Root())
	rb, _ := b.Node(b.Root())
	if ra.Children[0] == rb.Children[0] {
		t.Errorf("same column under different roots should have distinct ids, both %s", ra.Children[0])
	}
}

// TestRenderScenario walks the Board/ColA/ColB example end to end
func TestRenderScenario(t *testing.T) {
	tree := boardTree()

	lines := tree.RenderLines()
	if got := labels(lines); !reflect.DeepEqual(got, []string{"Board"}) {
		t.Fatalf("all folded: expected [Board], got %v", got)
	}
	if tree.Size() != 1 {
		t.Errorf("expected size 1, got %d", tree.Size())
	}

	tree.SetStatus(tree.Root(), Unfolded)
	lines = tree.RenderLines()
	if got := labels(lines); !reflect.DeepEqual(got, []string{"Board", "ColA", "ColB"}) {
		t.Fatalf("root unfolded: got %v", got)
	}

	colA := lines[1].NodeID
	tree.SetStatus(colA, Unfolded)
	lines = tree.RenderLines()
	want := []string{"Board", "ColA", "Task1", "Task2", "ColB"}
	if got := labels(lines); !reflect.DeepEqual(got, want) {
		t.Fatalf("ColA unfolded: got %v, want %v", got, want)
	}
	if tree.Size() != 5 {
		t.Errorf("expected size 5, got %d", tree.Size())
	}

	wantText := []string{"▾ Board", "  ▾ ColA", "    • Task1", "    • Task2", "  ▸ ColB"}
	if got := tree.Render(); !reflect.DeepEqual(got, wantText) {
		t.Errorf("text mismatch\n got: %q\nwant: %q", got, wantText)
	}
}

func TestRenderRecordsLineNumbers(t *testing.T) {
	tree := boardTree()
	tree.SetAll(Unfolded)
	lines := tree.RenderLines()

	for i, l := range lines {
		row, ok := tree.LineOf(l.NodeID)
		if !ok || row != i {
			t.Errorf("line %d (%s): LineOf = %d, %v", i, l.NodeID, row, ok)
		}
	}
}

func TestLineOfStaleAfterFold(t *testing.T) {
	tree := boardTree()
	tree.SetAll(Unfolded)
	lines := tree.RenderLines()
	task1 := lines[2].NodeID

	tree.SetStatus(lines[1].NodeID, Folded)
	tree.RenderLines()

	if _, ok := tree.LineOf(task1); ok {
		t.Error("folded-away node should not report a line")
	}
}

func TestLineOfBeforeRender(t *testing.T) {
	tree := boardTree()
	if _, ok := tree.LineOf(tree.Root()); ok {
		t.Error("no line should be known before the first render")
	}
	if tree.Size() != 0 {
		t.Errorf("expected size 0 before render, got %d", tree.Size())
	}
}

func TestRenderIdempotent(t *testing.T) {
	tree := boardTree()
	tree.SetStatus(tree.Root(), Unfolded)

	first := tree.Render()
	firstRows := map[NodeID]int{}
	for _, id := range tree.IDs() {
		if row, ok := tree.LineOf(id); ok {
			firstRows[id] = row
		}
	}

	second := tree.Render()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("render not idempotent:\n%q\n%q", first, second)
	}
	for id, row := range firstRows {
		if got, _ := tree.LineOf(id); got != row {
			t.Errorf("%s moved from %d to %d", id, row, got)
		}
	}
}

// TestHiddenRestoresPreviousLines verifies hidden is orthogonal to fold state
func TestHiddenRestoresPreviousLines(t *testing.T) {
	tree := boardTree()
	tree.SetAll(Unfolded)
	before := tree.Render()

	tree.SetHidden(true)
	hidden := tree.Render()
	if len(hidden) != 1 || hidden[0] != "▸ Board" {
		t.Fatalf("hidden tree should render only its root, got %q", hidden)
	}
	if tree.Size() != 1 {
		t.Errorf("expected size 1 while hidden, got %d", tree.Size())
	}

	tree.SetHidden(false)
	if after := tree.Render(); !reflect.DeepEqual(before, after) {
		t.Errorf("unhide changed the render:\nbefore %q\nafter  %q", before, after)
	}
}

func TestEmptyTreeRendersRoot(t *testing.T) {
	tree := Build("Empty lane", nil)
	tree.SetStatus(tree.Root(), Unfolded)
	if got := tree.Render(); !reflect.DeepEqual(got, []string{"▾ Empty lane"}) {
		t.Errorf("got %q", got)
	}
}

func TestToggleAndSetStatusUnknown(t *testing.T) {
	tree := boardTree()
	if tree.SetStatus("nope", Unfolded) {
		t.Error("SetStatus should report false for unknown ids")
	}
	if tree.Toggle("nope") {
		t.Error("Toggle should report false for unknown ids")
	}
	if !tree.Toggle(tree.Root()) {
		t.Fatal("Toggle on root failed")
	}
	if s, _ := tree.Status(tree.Root()); s != Unfolded {
		t.Errorf("expected root unfolded after toggle, got %s", s)
	}
}

func TestNodeReturnsCopy(t *testing.T) {
	tree := boardTree()
	root, _ := tree.Node(tree.Root())
	root.Children[0] = "mutated"
	root.Status = Unfolded

	again, _ := tree.Node(tree.Root())
	if again.Children[0] == "mutated" || again.Status == Unfolded {
		t.Error("Node should not expose the tree's own node")
	}
}

func TestKindAndStatusStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{KindRoot.String(), "root"},
		{KindGroup.String(), "group"},
		{KindLeaf.String(), "leaf"},
		{Kind(9).String(), "kind(9)"},
		{Folded.String(), "folded"},
		{Unfolded.String(), "unfolded"},
		{ActionWindow.String(), "window"},
		{ActionOpen.String(), "open"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
