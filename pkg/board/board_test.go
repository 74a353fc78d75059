package board

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vanderheijden86/kbtree/pkg/model"
	"github.com/vanderheijden86/kbtree/pkg/outline"
)

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		Project: model.Project{ID: "1", Name: "Ops"},
		Swimlanes: []model.Swimlane{
			{ID: "2", Name: "Expedite", Position: 2, IsActive: true},
			{ID: "1", Name: "Default", Position: 1, IsActive: true},
			{ID: "3", Name: "Archive", Position: 3, IsActive: false},
		},
		Columns: []model.Column{
			{ID: "20", Title: "Done", Position: 3},
			{ID: "10", Title: "Backlog", Position: 1},
			{ID: "15", Title: "Work in progress", Position: 2},
		},
		Tasks: []model.Task{
			{ID: "5", Title: "Second", ColumnID: "10", SwimlaneID: "1", Position: 2},
			{ID: "4", Title: "First", ColumnID: "10", SwimlaneID: "1", Position: 1},
			{ID: "6", Title: "Hotfix", ColumnID: "15", SwimlaneID: "2", Position: 1},
			{ID: "7", Title: "Old", ColumnID: "20", SwimlaneID: "3", Position: 1},
			{ID: "8", Title: "Shipped", ColumnID: "20", SwimlaneID: "1", Position: 1},
		},
	}
}

func names(o Outline) []string {
	out := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		out[i] = e.Name
	}
	return out
}

func TestGroupOrdersAndFilters(t *testing.T) {
	groups := Group(sampleSnapshot())
	if len(groups) != 2 {
		t.Fatalf("expected 2 active swimlanes, got %d", len(groups))
	}

	if groups[0].Label() != "Default" || groups[1].Label() != "Expedite" {
		t.Errorf("unexpected lane order %q, %q", groups[0].Label(), groups[1].Label())
	}

	want := []string{"Backlog/First", "Backlog/Second", "Done/Shipped"}
	if got := names(groups[0]); !reflect.DeepEqual(got, want) {
		t.Errorf("Default entries = %v, want %v", got, want)
	}
	if groups[0].Entries[0].RecordID != "4" {
		t.Errorf("expected record 4, got %q", groups[0].Entries[0].RecordID)
	}

	if got := names(groups[1]); !reflect.DeepEqual(got, []string{"Work in progress/Hotfix"}) {
		t.Errorf("Expedite entries = %v", got)
	}
}

func TestGroupTieBreaksOnID(t *testing.T) {
	snap := model.Snapshot{
		Swimlanes: []model.Swimlane{{ID: "1", Name: "L", IsActive: true}},
		Columns:   []model.Column{{ID: "1", Title: "C"}},
		Tasks: []model.Task{
			{ID: "10", Title: "ten", ColumnID: "1", SwimlaneID: "1"},
			{ID: "9", Title: "nine", ColumnID: "1", SwimlaneID: "1"},
		},
	}
	got := names(Group(snap)[0])
	if !reflect.DeepEqual(got, []string{"C/nine", "C/ten"}) {
		t.Errorf("got %v", got)
	}
}

func TestGroupSanitizesTitles(t *testing.T) {
	snap := model.Snapshot{
		Swimlanes: []model.Swimlane{{ID: "1", IsActive: true}},
		Columns:   []model.Column{{ID: "1", Title: "In/Out"}},
		Tasks: []model.Task{
			{ID: "1", Title: "client/server split", ColumnID: "1", SwimlaneID: "1"},
			{ID: "2", Title: "   ", ColumnID: "1", SwimlaneID: "1", Position: 1},
		},
	}
	g := Group(snap)[0]
	if g.Label() != Untitled {
		t.Errorf("expected untitled lane, got %q", g.Label())
	}
	want := []string{"In∕Out/client∕server split", "In∕Out/" + Untitled}
	if got := names(g); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	for _, e := range g.Entries {
		if strings.Count(e.Name, "/") != 1 {
			t.Errorf("%q should have exactly two segments", e.Name)
		}
	}
}

func TestGroupEmptyLaneStillListed(t *testing.T) {
	snap := model.Snapshot{
		Swimlanes: []model.Swimlane{{ID: "1", Name: "Quiet", IsActive: true}},
		Columns:   []model.Column{{ID: "1", Title: "Backlog"}},
	}
	groups := Group(snap)
	if len(groups) != 1 || len(groups[0].Entries) != 0 {
		t.Fatalf("expected one empty outline, got %+v", groups)
	}
}

func TestTreesBuildsPerSwimlane(t *testing.T) {
	trees := Trees(sampleSnapshot())
	if len(trees) != 2 {
		t.Fatalf("expected 2 trees, got %d", len(trees))
	}

	tree := trees[0]
	tree.SetAll(outline.Unfolded)
	want := []string{
		"▾ Default",
		"  ▾ Backlog",
		"    • First",
		"    • Second",
		"  ▾ Done",
		"    • Shipped",
	}
	if got := tree.Render(); !reflect.DeepEqual(got, want) {
		t.Errorf("render mismatch\n got: %q\nwant: %q", got, want)
	}
}
