package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatTimeRel returns a relative time string (e.g., "2h ago", "3d ago").
// Future times read "in 2h" and so on, which suits due dates.
func FormatTimeRel(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	d := now.Sub(t)
	suffix := " ago"
	prefix := ""
	if d < 0 {
		d = -d
		prefix, suffix = "in ", ""
	}
	var span string
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		span = fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		span = fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		span = fmt.Sprintf("%dd", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		span = fmt.Sprintf("%dw", int(d.Hours()/(24*7)))
	default:
		span = fmt.Sprintf("%dmo", int(d.Hours()/(24*30)))
	}
	return prefix + span + suffix
}

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// truncate truncates s to maxWidth cells with an ellipsis.
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// padRight pads s with spaces up to width cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// fitLine truncates or pads s to exactly width cells.
func fitLine(s string, width int) string {
	return padRight(truncate(s, width), width)
}
