package outline

import (
	"reflect"
	"testing"
)

func laneTrees() []*Tree {
	return []*Tree{
		Build("Lane 1", []Entry{
			{Name: "ColA/Task1", RecordID: "1"},
			{Name: "ColA/Task2", RecordID: "2"},
			{Name: "ColB/Task3", RecordID: "3"},
		}),
		Build("Lane 2", []Entry{
			{Name: "Backlog/Task4", RecordID: "4"},
		}),
	}
}

func sessionLabels(s *Session) []string {
	return labels(s.Lines())
}

// openSession returns a session showing Lane 1 with ColA unfolded:
//
//	0 Lane 1
//	1   ColA
//	2     Task1
//	3     Task2
//	4   ColB
//	5 Lane 2
func openSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.Install(laneTrees())
	s.Activate(0, ActivateDefault)
	s.Activate(1, ActivateDefault)

	want := []string{"Lane 1", "ColA", "Task1", "Task2", "ColB", "Lane 2"}
	if got := sessionLabels(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("setup: got %v, want %v", got, want)
	}
	return s
}

func TestSessionInstallRenders(t *testing.T) {
	s := NewSession()
	s.Install(laneTrees())

	if got := sessionLabels(s); !reflect.DeepEqual(got, []string{"Lane 1", "Lane 2"}) {
		t.Fatalf("got %v", got)
	}
	if s.Size() != 2 {
		t.Errorf("expected size 2, got %d", s.Size())
	}
	if s.Text() != "▸ Lane 1\n▸ Lane 2\n" {
		t.Errorf("unexpected text %q", s.Text())
	}
	if s.Offset(1) != 1 || s.Offset(2) != -1 {
		t.Errorf("unexpected offsets %d %d", s.Offset(1), s.Offset(2))
	}
}

func TestSessionInstallSkipsNil(t *testing.T) {
	s := NewSession()
	s.Install([]*Tree{nil, BuildNames("Only")})
	if len(s.Trees()) != 1 || s.Tree(0).Label() != "Only" {
		t.Errorf("expected one installed tree, got %d", len(s.Trees()))
	}
	if s.Tree(5) != nil {
		t.Error("out of range Tree should be nil")
	}
}

func TestSessionLocate(t *testing.T) {
	s := openSession(t)

	tests := []struct {
		row      int
		tree     int
		rel      int
		resolved bool
	}{
		{0, 0, 0, true},
		{4, 0, 4, true},
		{5, 1, 0, true},
		{6, -1, -1, false},
		{-1, -1, -1, false},
	}
	for _, tt := range tests {
		tree, rel, ok := s.Locate(tt.row)
		if tree != tt.tree || rel != tt.rel || ok != tt.resolved {
			t.Errorf("Locate(%d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.row, tree, rel, ok, tt.tree, tt.rel, tt.resolved)
		}
	}

	n, ok := s.NodeAt(2)
	if !ok || n.RecordID != "1" {
		t.Errorf("NodeAt(2) = %+v, %v", n, ok)
	}
	if _, ok := s.NodeAt(99); ok {
		t.Error("NodeAt past the end should fail")
	}
}

func TestSessionActivateDefault(t *testing.T) {
	s := openSession(t)

	out := s.Activate(2, ActivateDefault)
	if out.Action.Kind != ActionOpen || out.Open != "1" || out.Redraw {
		t.Errorf("leaf activation: %+v", out)
	}

	out = s.Activate(1, ActivateDefault)
	if out.Action.Kind != ActionUnfold || !out.Redraw || out.Tree != 0 {
		t.Errorf("fold ColA: %+v", out)
	}
	want := []string{"Lane 1", "ColA", "ColB", "Lane 2"}
	if got := sessionLabels(s); !reflect.DeepEqual(got, want) {
		t.Errorf("after fold: got %v, want %v", got, want)
	}

	out = s.Activate(3, ActivateDefault)
	if out.Action.Kind != ActionFold || out.Tree != 1 {
		t.Errorf("unfold Lane 2: %+v", out)
	}
	want = []string{"Lane 1", "ColA", "ColB", "Lane 2", "Backlog"}
	if got := sessionLabels(s); !reflect.DeepEqual(got, want) {
		t.Errorf("after unfolding Lane 2: got %v, want %v", got, want)
	}
}

func TestSessionActivateOutOfRange(t *testing.T) {
	s := openSession(t)
	before := s.Text()

	for _, row := range []int{-1, 6, 100} {
		out := s.Activate(row, ActivateDefault)
		if out.Tree != -1 || out.Goto != -1 || out.Redraw {
			t.Errorf("row %d: expected empty outcome, got %+v", row, out)
		}
	}
	if s.Text() != before {
		t.Error("out of range activation changed the render")
	}
}

func TestSessionForceFold(t *testing.T) {
	s := openSession(t)

	out := s.Activate(3, ActivateFold)
	if out.Goto != 1 {
		t.Errorf("force-fold on Task2 should go to ColA at row 1, got %d", out.Goto)
	}

	out = s.Activate(1, ActivateFold)
	if out.Goto != 0 {
		t.Errorf("force-fold on ColA should go to the root, got %d", out.Goto)
	}

	out = s.Activate(0, ActivateFold)
	if out.Goto != 0 || !s.Tree(0).Hidden() {
		t.Errorf("force-fold on the root should hide the tree: %+v", out)
	}
	if got := sessionLabels(s); !reflect.DeepEqual(got, []string{"Lane 1", "Lane 2"}) {
		t.Errorf("after hiding: got %v", got)
	}

	out = s.Activate(0, ActivateFold)
	if out.Action.Kind != ActionWindow || out.Redraw || out.Goto != -1 {
		t.Errorf("force-fold on a hidden tree should do nothing: %+v", out)
	}
}

func TestSessionForceUnfold(t *testing.T) {
	s := openSession(t)

	out := s.Activate(4, ActivateUnfold)
	if !out.Redraw || out.Goto != 5 {
		t.Errorf("force-unfold on folded ColB should open it and go to Task3: %+v", out)
	}
	n, _ := s.NodeAt(out.Goto)
	if n.Label != "Task3" {
		t.Errorf("expected cursor on Task3, got %q", n.Label)
	}

	out = s.Activate(1, ActivateUnfold)
	if out.Redraw || out.Goto != 2 {
		t.Errorf("force-unfold on open ColA should only move to Task1: %+v", out)
	}

	out = s.Activate(2, ActivateUnfold)
	if out.Redraw || out.Goto != -1 || out.Open != "" {
		t.Errorf("force-unfold on a leaf should do nothing: %+v", out)
	}
}

// TestSessionWindowToggle verifies hiding and showing a tree restores its lines
func TestSessionWindowToggle(t *testing.T) {
	s := openSession(t)
	before := s.Text()

	if row := s.ToggleHidden(3); row != 0 {
		t.Errorf("ToggleHidden should return the root row, got %d", row)
	}
	if got := sessionLabels(s); !reflect.DeepEqual(got, []string{"Lane 1", "Lane 2"}) {
		t.Fatalf("hidden: got %v", got)
	}

	out := s.Activate(0, ActivateDefault)
	if out.Action.Kind != ActionWindow || out.Goto != 0 || !out.Redraw {
		t.Errorf("window activation: %+v", out)
	}
	if s.Text() != before {
		t.Errorf("unhide did not restore lines:\n%s\nvs\n%s", s.Text(), before)
	}

	s.ToggleHidden(0)
	out = s.Activate(0, ActivateUnfold)
	if s.Tree(0).Hidden() || out.Goto != 0 {
		t.Errorf("force-unfold on a hidden tree should show it: %+v", out)
	}

	if row := s.ToggleHidden(42); row != -1 {
		t.Errorf("expected -1 for a row outside every tree, got %d", row)
	}
}

// TestSessionRefreshKeepsState verifies a rebuilt generation keeps fold and hidden state
func TestSessionRefreshKeepsState(t *testing.T) {
	s := openSession(t)
	s.Activate(5, ActivateFold)
	before := s.Text()

	s.Install(laneTrees())
	if s.Text() != before {
		t.Errorf("refresh changed the outline:\n%s\nvs\n%s", s.Text(), before)
	}
	if !s.Tree(1).Hidden() {
		t.Error("hidden flag was not carried over")
	}

	next := laneTrees()
	next[0] = Build("Lane 1", []Entry{
		{Name: "ColA/Task1", RecordID: "1"},
		{Name: "ColA/Task9", RecordID: "9"},
	})
	s.Install(next)
	want := []string{"Lane 1", "ColA", "Task1", "Task9", "Lane 2"}
	if got := sessionLabels(s); !reflect.DeepEqual(got, want) {
		t.Errorf("after change: got %v, want %v", got, want)
	}
}

func TestSessionExpandCollapseAll(t *testing.T) {
	s := NewSession()
	s.Install(laneTrees())

	s.ExpandAll()
	if s.Size() != 9 {
		t.Errorf("expected 9 lines fully expanded, got %d: %v", s.Size(), sessionLabels(s))
	}
	s.CollapseAll()
	if s.Size() != 2 {
		t.Errorf("expected 2 lines collapsed, got %d", s.Size())
	}
}

func TestSessionFind(t *testing.T) {
	s := openSession(t)

	tests := []struct {
		record string
		want   int
	}{
		{"1", 2},
		{"2", 3},
		{"3", -1},
		{"4", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := s.Find(tt.record); got != tt.want {
			t.Errorf("Find(%q) = %d, want %d", tt.record, got, tt.want)
		}
	}

	s.ExpandAll()
	if got := s.Find("4"); got != 8 {
		t.Errorf("Find(4) after expand = %d, want 8", got)
	}
}
