// Package board turns a Kanboard snapshot into outline trees: one tree per
// active swimlane, columns as groups and tasks as leaves.
package board

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vanderheijden86/kbtree/pkg/model"
	"github.com/vanderheijden86/kbtree/pkg/outline"
)

// Untitled stands in for an empty column or task title.
const Untitled = "untitled"

// titleSlash replaces the path separator inside titles.
const titleSlash = "∕"

// Outline is the grouped content of one swimlane, ready to build.
type Outline struct {
	Swimlane model.Swimlane
	Entries  []outline.Entry
}

// Label is the root label of the swimlane's tree.
func (o Outline) Label() string {
	if o.Swimlane.Name == "" {
		return Untitled
	}
	return o.Swimlane.Name
}

// Group splits a snapshot into one Outline per active swimlane, in position
// order. Within a swimlane, columns appear in position order and each
// column's tasks in position order, as "<column>/<task>" entries keyed by
// task id. Columns without tasks produce no entries.
func Group(snap model.Snapshot) []Outline {
	lanes := sortedSwimlanes(snap.Swimlanes)
	cols := sortedColumns(snap.Columns)
	tasks := sortedTasks(snap.Tasks)

	type cell struct{ lane, col model.ID }
	byCell := make(map[cell][]model.Task, len(cols)*max(len(lanes), 1))
	for _, t := range tasks {
		k := cell{t.SwimlaneID, t.ColumnID}
		byCell[k] = append(byCell[k], t)
	}

	var out []Outline
	for _, lane := range lanes {
		if !lane.IsActive {
			continue
		}
		o := Outline{Swimlane: lane}
		for _, col := range cols {
			colTitle := segment(col.Title)
			for _, t := range byCell[cell{lane.ID, col.ID}] {
				o.Entries = append(o.Entries, outline.Entry{
					Name:     colTitle + outline.Separator + segment(t.Title),
					RecordID: string(t.ID),
				})
			}
		}
		out = append(out, o)
	}
	return out
}

// Trees groups a snapshot and builds one tree per active swimlane.
func Trees(snap model.Snapshot) []*outline.Tree {
	groups := Group(snap)
	trees := make([]*outline.Tree, len(groups))
	for i, g := range groups {
		trees[i] = outline.Build(g.Label(), g.Entries)
	}
	return trees
}

// segment makes a title safe to use as one path segment.
func segment(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return Untitled
	}
	return strings.ReplaceAll(title, outline.Separator, titleSlash)
}

func sortedSwimlanes(in []model.Swimlane) []model.Swimlane {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b model.Swimlane) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}

func sortedColumns(in []model.Column) []model.Column {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b model.Column) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}

func sortedTasks(in []model.Task) []model.Task {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	return out
}

// compareIDs orders numeric ids numerically and anything else lexically.
func compareIDs(a, b model.ID) int {
	x, errA := a.Int()
	y, errB := b.Int()
	if errA == nil && errB == nil {
		return cmp.Compare(x, y)
	}
	return strings.Compare(string(a), string(b))
}
