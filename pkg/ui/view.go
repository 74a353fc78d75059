package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/kbtree/pkg/metrics"
	"github.com/vanderheijden86/kbtree/pkg/model"
	"github.com/vanderheijden86/kbtree/pkg/outline"
)

func (m *Model) bodyHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) detailBelow() bool {
	return m.cfg.UI.DetailPosition == "bottom"
}

func (m *Model) detailRatio() float64 {
	r := m.cfg.UI.DetailRatio
	if r < 0.2 || r > 0.8 {
		return 0.45
	}
	return r
}

// layout sizes the outline and detail viewports for the terminal size and
// whether a task is open. The detail pane is dropped when it would be too
// small to read.
func (m *Model) layout() {
	body := m.bodyHeight()
	m.outline.Width, m.outline.Height = m.width, body
	m.detail.Width, m.detail.Height = 0, 0

	if m.openTask == "" {
		return
	}

	if m.detailBelow() {
		h := int(float64(body) * m.detailRatio())
		if h < minDetailHeight || body-h < 3 {
			return
		}
		m.outline.Height = body - h
		m.detail.Width, m.detail.Height = m.width-2, h-2
		return
	}

	w := int(float64(m.width) * m.detailRatio())
	if w-2 < MinDetailPaneWidth || m.width-w < 20 {
		return
	}
	m.outline.Width = m.width - w
	m.detail.Width, m.detail.Height = w-2, body-2
}

func (m *Model) detailVisible() bool {
	return m.openTask != "" && m.detail.Width > 0
}

func (m *Model) inOutline(x, y int) bool {
	return x >= 0 && x < m.outline.Width &&
		y >= headerHeight && y < headerHeight+m.outline.Height
}

// syncOutline redraws the outline viewport from the session and scrolls it
// so the cursor row is visible.
func (m *Model) syncOutline() {
	lines := m.session.Lines()
	m.clampCursor()

	if len(lines) == 0 {
		msg := "No active swimlanes"
		if !m.loaded && m.src != nil {
			msg = "Loading " + m.src.Name() + "…"
		}
		m.outline.SetContent(m.theme.MutedText.Render(fitLine(" "+msg, m.outline.Width)))
		m.outline.SetYOffset(0)
		return
	}

	hidden := make(map[int]bool)
	for i, t := range m.session.Trees() {
		if t.Hidden() {
			hidden[m.session.Offset(i)] = true
		}
	}

	rows := make([]string, len(lines))
	for i, l := range lines {
		text := fitLine(l.Text, m.outline.Width)
		if i == m.cursor {
			rows[i] = m.theme.Selected.Render(text)
			continue
		}
		rows[i] = m.lineStyle(i, l, hidden[i]).Render(text)
	}
	m.outline.SetContent(strings.Join(rows, "\n"))

	if m.cursor < m.outline.YOffset {
		m.outline.SetYOffset(m.cursor)
	} else if m.cursor >= m.outline.YOffset+m.outline.Height {
		m.outline.SetYOffset(m.cursor - m.outline.Height + 1)
	}
}

func (m *Model) lineStyle(row int, l outline.Line, hidden bool) lipgloss.Style {
	switch l.Kind {
	case outline.KindRoot:
		if hidden {
			return m.theme.HiddenRoot
		}
		return m.theme.Root
	case outline.KindGroup:
		return m.theme.Group
	case outline.KindLeaf:
		if n, ok := m.session.NodeAt(row); ok {
			if t, ok := m.snapshot.TaskByID(model.ID(n.RecordID)); ok && t.ColorID != "" {
				return m.theme.Leaf.Foreground(TaskColor(t.ColorID))
			}
		}
		return m.theme.Leaf
	default:
		return m.theme.Base
	}
}

// refreshDetail re-renders the open task into the detail viewport.
func (m *Model) refreshDetail() {
	if !m.detailVisible() {
		return
	}
	t, ok := m.openTaskData()
	if !ok {
		m.detail.SetContent(fmt.Sprintf("Task #%s is no longer on the board", m.openTask))
		return
	}
	md := taskMarkdown(&m.snapshot, t, m.now())
	m.detail.SetContent(m.markdown.Render(md, m.detail.Width))
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	header := m.renderHeader()
	footer := m.renderFooter()

	var body string
	switch {
	case m.showHelp:
		body = m.renderHelp()
	case m.detailVisible():
		detail := FocusedPanelStyle.
			Width(m.detail.Width).
			Height(m.detail.Height).
			Render(m.detail.View())
		if m.detailBelow() {
			body = lipgloss.JoinVertical(lipgloss.Left, m.outline.View(), detail)
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, m.outline.View(), detail)
		}
	default:
		body = m.outline.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("kbt")

	name := m.snapshot.Project.Name
	if name == "" {
		name = m.cfg.ProjectName(m.cfg.ProjectID)
	}
	parts := []string{}
	if name != "" {
		parts = append(parts, name)
	}
	if m.loaded {
		parts = append(parts,
			fmt.Sprintf("%d lanes", len(m.session.Trees())),
			fmt.Sprintf("%d tasks", len(m.snapshot.Tasks)),
			"updated "+FormatTimeRel(m.lastLoad, m.now()))
	}
	info := " " + strings.Join(parts, " · ")

	spin := ""
	if m.loading {
		spin = " " + m.spinner.View()
	}
	room := m.width - lipgloss.Width(title) - lipgloss.Width(spin)
	return title + m.theme.MutedText.Render(fitLine(info, room)) + spin
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		style, prefix := m.theme.StatusOK, "✓ "
		if m.statusIsError {
			style, prefix = m.theme.StatusErr, "✗ "
		}
		section := style.Render(truncate(prefix+m.statusMsg, m.width-4))
		remaining := m.width - lipgloss.Width(section)
		if remaining < 0 {
			remaining = 0
		}
		return section + strings.Repeat(" ", remaining)
	}
	return " " + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) renderHelp() string {
	content := m.help.FullHelpView(m.keys.FullHelp())
	panel := FocusedPanelStyle.Padding(1, 2).Render(content)
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, panel)
}
