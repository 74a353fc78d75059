package outline

import "testing"

func TestActionResolvesRows(t *testing.T) {
	tree := boardTree()
	tree.SetStatus(tree.Root(), Unfolded)
	tree.SetStatus(groupID("Board", "ColA"), Unfolded)
	tree.Render()

	tests := []struct {
		row    int
		kind   ActionKind
		record string
	}{
		{0, ActionUnfold, ""},
		{1, ActionUnfold, ""},
		{2, ActionOpen, "1"},
		{3, ActionOpen, "2"},
		{4, ActionFold, ""},
		{5, ActionNone, ""},
		{-1, ActionNone, ""},
	}

	for _, tt := range tests {
		got := tree.Action(tt.row)
		if got.Kind != tt.kind {
			t.Errorf("row %d: expected %s, got %s", tt.row, tt.kind, got.Kind)
		}
		if got.RecordID != tt.record {
			t.Errorf("row %d: expected record %q, got %q", tt.row, tt.record, got.RecordID)
		}
	}
}

// TestActionScenario follows the unfold-then-open flow on a fresh board
func TestActionScenario(t *testing.T) {
	tree := boardTree()
	tree.SetStatus(tree.Root(), Unfolded)
	tree.Render()

	act := tree.Action(1)
	if act.Kind != ActionFold {
		t.Fatalf("folded ColA should resolve to fold, got %s", act.Kind)
	}
	tree.SetStatus(act.NodeID, Unfolded)
	tree.Render()

	act = tree.Action(2)
	if act.Kind != ActionOpen || act.RecordID != "1" {
		t.Fatalf("expected open of record 1, got %+v", act)
	}
}

func TestActionHiddenTreeIsWindow(t *testing.T) {
	tree := boardTree()
	tree.SetAll(Unfolded)
	tree.SetHidden(true)
	tree.Render()

	if act := tree.Action(0); act.Kind != ActionWindow || act.NodeID != tree.Root() {
		t.Errorf("expected window on root, got %+v", act)
	}
	if act := tree.Action(1); act.Kind != ActionNone {
		t.Errorf("hidden tree has one row, got %+v at row 1", act)
	}
}

func TestActionBeforeRender(t *testing.T) {
	tree := boardTree()
	if act := tree.Action(0); act.Kind != ActionNone {
		t.Errorf("unrendered tree should resolve nothing, got %s", act.Kind)
	}
}
