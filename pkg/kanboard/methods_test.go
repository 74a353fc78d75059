package kanboard

import (
	"context"
	"errors"
	"sort"
	"testing"
)

var boardResults = map[string]string{
	"getProjectById":  `{"id":"1","name":"Ops","is_active":"1","url":{"board":"http://kb/board/1"}}`,
	"getAllSwimlanes": `[{"id":"1","name":"Default swimlane","position":"1","is_active":"1"},{"id":"2","name":"Archive","position":"2","is_active":"0"}]`,
	"getColumns":      `[{"id":"1","title":"Backlog","position":"1"},{"id":"2","title":"Done","position":"2"}]`,
	"getAllTasks":     `[{"id":"10","title":"Patch hosts","column_id":"1","swimlane_id":"1","position":"1","url":"http://kb/task/10"}]`,
}

func TestFetchSnapshot(t *testing.T) {
	f, srv := newFake(t, boardResults)
	c, _ := New(Options{URL: srv.URL})

	snap, err := c.FetchSnapshot(context.Background(), 1, StatusOpen)
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}

	if snap.Project.Name != "Ops" || snap.Project.URL.Board != "http://kb/board/1" {
		t.Errorf("unexpected project %+v", snap.Project)
	}
	if len(snap.Swimlanes) != 2 || len(snap.Columns) != 2 || len(snap.Tasks) != 1 {
		t.Errorf("unexpected counts: %d swimlanes, %d columns, %d tasks",
			len(snap.Swimlanes), len(snap.Columns), len(snap.Tasks))
	}
	if snap.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}

	got := f.methods()
	sort.Strings(got)
	want := []string{"getAllSwimlanes", "getAllTasks", "getColumns", "getProjectById"}
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("calls = %v, want %v", got, want)
			break
		}
	}
}

func TestFetchSnapshotEmptyBoard(t *testing.T) {
	_, srv := newFake(t, map[string]string{
		"getProjectById":  `{"id":"1","name":"Empty"}`,
		"getAllSwimlanes": `[]`,
		"getColumns":      `null`,
		"getAllTasks":     `false`,
	})
	c, _ := New(Options{URL: srv.URL})

	snap, err := c.FetchSnapshot(context.Background(), 1, StatusOpen)
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if len(snap.Columns) != 0 || len(snap.Tasks) != 0 {
		t.Errorf("expected an empty board, got %+v", snap)
	}
}

func TestFetchSnapshotFailsAsUnit(t *testing.T) {
	results := map[string]string{}
	for k, v := range boardResults {
		results[k] = v
	}
	delete(results, "getColumns")

	_, srv := newFake(t, results)
	c, _ := New(Options{URL: srv.URL})

	snap, err := c.FetchSnapshot(context.Background(), 1, StatusOpen)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if snap.Project.Name != "" || snap.Tasks != nil {
		t.Errorf("failed fetch should return an empty snapshot, got %+v", snap)
	}
}

func TestFetchSnapshotMissingProject(t *testing.T) {
	results := map[string]string{}
	for k, v := range boardResults {
		results[k] = v
	}
	results["getProjectById"] = `null`

	_, srv := newFake(t, results)
	c, _ := New(Options{URL: srv.URL})

	if _, err := c.FetchSnapshot(context.Background(), 99, StatusOpen); !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult for a missing project, got %v", err)
	}
}
