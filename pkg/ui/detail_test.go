package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/kbtree/pkg/model"
)

func TestTaskMarkdown(t *testing.T) {
	snap := boardSnapshot()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	task := snap.Tasks[0]
	task.Description = "Rotate the *staging* hosts first."
	task.DateDue = model.Int(now.Add(48 * time.Hour).Unix())
	task.Reference = "OPS-12"

	md := taskMarkdown(&snap, task, now)
	for _, want := range []string{
		"# #1 Task1",
		"**ColA**",
		"Lane 1",
		"2026-03-03 (in 2d)",
		"**Reference:** OPS-12",
		"**Link:** http://kb/task/1",
		"### Description",
		"*staging*",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestTaskMarkdownUnknownColumn(t *testing.T) {
	snap := boardSnapshot()
	md := taskMarkdown(&snap, model.Task{ID: "9", Title: "Orphan", ColumnID: "99"}, time.Now())
	if !strings.Contains(md, "| **?** | ? |") {
		t.Errorf("unknown column and swimlane should show ?, got:\n%s", md)
	}
	if strings.Contains(md, "Description") {
		t.Error("empty description should be omitted")
	}
}

func TestMarkdownRendererReusesWidth(t *testing.T) {
	r := &markdownRenderer{}
	out := r.Render("# Title\n\nbody text", 40)
	if !strings.Contains(out, "Title") || !strings.Contains(out, "body text") {
		t.Errorf("unexpected render %q", out)
	}
	first := r.tr
	r.Render("again", 40)
	if r.tr != first {
		t.Error("renderer should be reused at the same width")
	}
	r.Render("again", 60)
	if r.tr == first || r.width != 60 {
		t.Error("renderer should be rebuilt for a new width")
	}
}
