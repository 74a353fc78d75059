package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/kbtree/pkg/model"
)

// taskMarkdown formats a task and its board position for the detail pane.
func taskMarkdown(snap *model.Snapshot, t model.Task, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# #%s %s\n\n", t.ID, t.Title)

	column, swimlane := "?", "?"
	if c, ok := snap.ColumnByID(t.ColumnID); ok {
		column = c.Title
	}
	if l, ok := snap.SwimlaneByID(t.SwimlaneID); ok {
		swimlane = l.Name
	}

	sb.WriteString("| Column | Swimlane | Priority | Color | Due |\n|---|---|---|---|---|\n")
	due := "-"
	if d := t.Due(); !d.IsZero() {
		due = fmt.Sprintf("%s (%s)", d.Format("2006-01-02"), FormatTimeRel(d, now))
	}
	color := t.ColorID
	if color == "" {
		color = "-"
	}
	fmt.Fprintf(&sb, "| **%s** | %s | P%d | %s | %s |\n\n", column, swimlane, int64(t.Priority), color, due)

	if t.Reference != "" {
		fmt.Fprintf(&sb, "**Reference:** %s  \n", t.Reference)
	}
	if t.OwnerID != "" {
		fmt.Fprintf(&sb, "**Owner:** user %s  \n", t.OwnerID)
	}
	if t.DateModified > 0 {
		fmt.Fprintf(&sb, "**Updated:** %s  \n", FormatTimeRel(time.Unix(int64(t.DateModified), 0), now))
	}
	if t.URL != "" {
		fmt.Fprintf(&sb, "**Link:** %s  \n", t.URL)
	}

	if t.Description != "" {
		sb.WriteString("\n### Description\n\n")
		sb.WriteString(t.Description + "\n")
	}
	return sb.String()
}

// markdownRenderer renders the detail pane, rebuilt when the pane width
// changes.
type markdownRenderer struct {
	width int
	tr    *glamour.TermRenderer
}

func (r *markdownRenderer) Render(md string, width int) string {
	if width < 20 {
		width = 20
	}
	if r.tr == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		r.tr, r.width = tr, width
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return fmt.Sprintf("Error rendering markdown: %v\n\n%s", err, md)
	}
	return out
}
