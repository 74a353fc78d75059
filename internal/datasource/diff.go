package datasource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/kbtree/pkg/model"
)

// SnapshotDiff describes how a board changed between two refreshes.
type SnapshotDiff struct {
	// Added contains task IDs present only in the newer snapshot
	Added []model.ID
	// Removed contains task IDs present only in the older snapshot
	Removed []model.ID
	// Moved contains tasks whose column or swimlane changed
	Moved []TaskMove
	// Renamed contains task IDs whose title changed
	Renamed []model.ID
	// CountOld is the number of tasks in the older snapshot
	CountOld int
	// CountNew is the number of tasks in the newer snapshot
	CountNew int
}

// TaskMove is one task that changed position on the board.
type TaskMove struct {
	ID         model.ID `json:"id"`
	FromColumn model.ID `json:"from_column"`
	ToColumn   model.ID `json:"to_column"`
	FromLane   model.ID `json:"from_swimlane"`
	ToLane     model.ID `json:"to_swimlane"`
}

// Empty reports whether nothing changed.
func (d SnapshotDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Moved) == 0 && len(d.Renamed) == 0
}

// Summary returns a one-line summary suitable for a status bar.
func (d SnapshotDiff) Summary() string {
	if d.Empty() {
		return fmt.Sprintf("no changes (%d tasks)", d.CountNew)
	}
	var parts []string
	if n := len(d.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if n := len(d.Moved); n > 0 {
		parts = append(parts, fmt.Sprintf("%d moved", n))
	}
	if n := len(d.Renamed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d renamed", n))
	}
	return strings.Join(parts, ", ")
}

// Diff compares the tasks of two snapshots. Results are sorted by task id.
func Diff(older, newer model.Snapshot) SnapshotDiff {
	d := SnapshotDiff{CountOld: len(older.Tasks), CountNew: len(newer.Tasks)}

	before := make(map[model.ID]model.Task, len(older.Tasks))
	for _, t := range older.Tasks {
		before[t.ID] = t
	}
	seen := make(map[model.ID]bool, len(newer.Tasks))

	for _, t := range newer.Tasks {
		seen[t.ID] = true
		prev, ok := before[t.ID]
		if !ok {
			d.Added = append(d.Added, t.ID)
			continue
		}
		if prev.ColumnID != t.ColumnID || prev.SwimlaneID != t.SwimlaneID {
			d.Moved = append(d.Moved, TaskMove{
				ID:         t.ID,
				FromColumn: prev.ColumnID,
				ToColumn:   t.ColumnID,
				FromLane:   prev.SwimlaneID,
				ToLane:     t.SwimlaneID,
			})
		}
		if prev.Title != t.Title {
			d.Renamed = append(d.Renamed, t.ID)
		}
	}
	for _, t := range older.Tasks {
		if !seen[t.ID] {
			d.Removed = append(d.Removed, t.ID)
		}
	}

	sortIDs(d.Added)
	sortIDs(d.Removed)
	sortIDs(d.Renamed)
	sort.Slice(d.Moved, func(i, j int) bool { return lessID(d.Moved[i].ID, d.Moved[j].ID) })
	return d
}

func sortIDs(ids []model.ID) {
	sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })
}

func lessID(a, b model.ID) bool {
	x, errA := a.Int()
	y, errB := b.Int()
	if errA == nil && errB == nil {
		return x < y
	}
	return a < b
}
