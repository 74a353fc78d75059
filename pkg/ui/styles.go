package ui

import "github.com/charmbracelet/lipgloss"

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	ColorSuccessBg = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorDangerBg  = lipgloss.AdaptiveColor{Light: "#F8D7DA", Dark: "#3D1A1A"}
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - For split view layouts
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// Kanboard task colors (color_id) mapped onto the palette. Unknown ids fall
// back to the muted color.
var taskColors = map[string]lipgloss.AdaptiveColor{
	"yellow":      {Light: "#808000", Dark: "#F1FA8C"},
	"blue":        {Light: "#0066CC", Dark: "#6699FF"},
	"green":       ColorSuccess,
	"purple":      ColorPrimary,
	"red":         ColorDanger,
	"orange":      ColorWarning,
	"grey":        ColorMuted,
	"brown":       {Light: "#7A4A1E", Dark: "#C8A27A"},
	"deep_orange": {Light: "#B03A00", Dark: "#FF7043"},
	"dark_grey":   {Light: "#444444", Dark: "#8A8FA3"},
	"pink":        {Light: "#B0307A", Dark: "#FF79C6"},
	"teal":        {Light: "#008080", Dark: "#00CED1"},
	"cyan":        ColorInfo,
	"lime":        {Light: "#5A8F00", Dark: "#B9F27C"},
	"light_green": {Light: "#2E8B57", Dark: "#9AE6B4"},
	"amber":       {Light: "#A06A00", Dark: "#FFC857"},
}

// TaskColor returns the palette color for a Kanboard color id.
func TaskColor(colorID string) lipgloss.AdaptiveColor {
	if c, ok := taskColors[colorID]; ok {
		return c
	}
	return ColorMuted
}
