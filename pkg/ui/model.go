package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/kbtree/internal/datasource"
	"github.com/vanderheijden86/kbtree/pkg/board"
	"github.com/vanderheijden86/kbtree/pkg/config"
	"github.com/vanderheijden86/kbtree/pkg/debug"
	"github.com/vanderheijden86/kbtree/pkg/model"
	"github.com/vanderheijden86/kbtree/pkg/outline"
	"github.com/vanderheijden86/kbtree/pkg/watcher"
)

// Layout
const (
	headerHeight       = 1
	footerHeight       = 1
	MinDetailPaneWidth = 30 // Auto-hide detail panel below this width
	minDetailHeight    = 6
	wheelStep          = 3
)

// DoubleClickWindow is the longest gap between two clicks on the same row
// that still counts as a double-click.
const DoubleClickWindow = 400 * time.Millisecond

// Model is the main Bubble Tea model for kbt: the stacked swimlane outlines
// on the left and, once a task is opened, its details beside or below them.
type Model struct {
	cfg     config.Config
	src     datasource.Source
	watcher *watcher.Watcher
	seq     int // bumped whenever src is replaced

	session  *outline.Session
	snapshot model.Snapshot
	loaded   bool
	loading  bool
	pending  bool // a refresh was requested while one was in flight
	lastLoad time.Time

	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	outline  viewport.Model
	detail   viewport.Model
	markdown *markdownRenderer

	width    int
	height   int
	cursor   int
	openTask model.ID
	fresh    *model.Task // openTask as last re-read from the source
	showHelp bool

	lastClickRow int
	lastClickAt  time.Time

	statusMsg     string
	statusIsError bool

	now       func() time.Time
	clipboard func(string) error
}

// NewModel returns a model that reads boards from src. The first load is
// started by Init.
func NewModel(src datasource.Source, cfg config.Config) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	m := Model{
		cfg:          cfg,
		src:          src,
		session:      outline.NewSession(),
		theme:        DefaultTheme(lipgloss.DefaultRenderer()),
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		outline:      viewport.New(120, 38),
		detail:       viewport.New(40, 36),
		markdown:     &markdownRenderer{},
		width:        120,
		height:       40,
		loading:      true,
		lastClickRow: -1,
		now:          time.Now,
		clipboard:    clipboard.WriteAll,
	}
	m.help.Width = m.width
	m.layout()
	m.syncOutline()
	return m
}

// WithWatcher attaches a started file watcher; changes trigger a refresh.
func (m Model) WithWatcher(w *watcher.Watcher) Model {
	m.watcher = w
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadCmd(m.src, m.seq, m.cfg.Timeout),
		m.spinner.Tick,
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	if tick := m.tickCmd(); tick != nil {
		cmds = append(cmds, tick)
	}
	return tea.Batch(cmds...)
}

// tickCmd returns the interval refresh used when no watcher is attached.
func (m Model) tickCmd() tea.Cmd {
	if m.watcher != nil || m.cfg.RefreshInterval <= 0 {
		return nil
	}
	return refreshTickCmd(m.cfg.RefreshInterval, m.seq)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
		m.refreshDetail()

	case SnapshotMsg:
		if cmd := m.applySnapshot(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case FileChangedMsg:
		debug.Log("ui: board file changed, reloading")
		cmds = append(cmds, m.startLoad())
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}

	case refreshTickMsg:
		if msg.seq == m.seq {
			cmds = append(cmds, m.startLoad(), m.tickCmd())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case TaskMsg:
		m.applyTask(msg)

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case tea.KeyMsg:
		quit, cmd := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}

	m.syncOutline()
	return m, tea.Batch(cmds...)
}

// startLoad begins a refresh, or queues one behind the refresh in flight.
func (m *Model) startLoad() tea.Cmd {
	if m.loading {
		m.pending = true
		return nil
	}
	m.loading = true
	return tea.Batch(LoadCmd(m.src, m.seq, m.cfg.Timeout), m.spinner.Tick)
}

// applySnapshot installs a successful load. A failed load only reports the
// error; the outline on screen stays as it was.
func (m *Model) applySnapshot(msg SnapshotMsg) tea.Cmd {
	if msg.Seq != m.seq {
		return nil
	}
	m.loading = false

	var next tea.Cmd
	if m.pending {
		m.pending = false
		next = m.startLoad()
	}

	if msg.Err != nil {
		debug.Log("ui: refresh of %s failed: %v", m.src.Name(), msg.Err)
		m.setError(fmt.Sprintf("Refresh failed: %v", msg.Err))
		return next
	}

	anchor, hasAnchor := m.cursorNode()
	prev, hadPrev := m.snapshot, m.loaded

	m.snapshot = msg.Snapshot
	m.fresh = nil
	m.session.Install(board.Trees(msg.Snapshot))
	if !hadPrev && m.cfg.UI.UnfoldOnStart {
		m.session.ExpandAll()
	}
	m.loaded = true
	m.lastLoad = m.now()

	if hasAnchor {
		if row := m.rowOf(anchor); row >= 0 {
			m.cursor = row
		}
	}
	m.clampCursor()

	if hadPrev {
		if d := datasource.Diff(prev, msg.Snapshot); !d.Empty() {
			m.setStatus(d.Summary())
		}
	} else {
		m.setStatus(fmt.Sprintf("Loaded %d tasks from %s in %s",
			len(msg.Snapshot.Tasks), m.src.Name(), msg.Took.Round(time.Millisecond)))
	}

	if m.openTask != "" {
		if _, ok := m.snapshot.TaskByID(m.openTask); !ok {
			m.openTask = ""
			m.layout()
		}
	}
	m.refreshDetail()
	debug.Log("ui: installed %d trees, %d lines", len(m.session.Trees()), m.session.Size())
	return next
}

func (m *Model) handleKey(msg tea.KeyMsg) (quit bool, cmd tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Quit) {
			return true, nil
		}
		m.showHelp = false
		return false, nil
	}

	m.clearStatus()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.outline.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.outline.Height)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = m.session.Size() - 1
	case key.Matches(msg, m.keys.Activate):
		cmd = m.activate(m.cursor, outline.ActivateDefault)
	case key.Matches(msg, m.keys.Fold):
		cmd = m.activate(m.cursor, outline.ActivateFold)
	case key.Matches(msg, m.keys.Unfold):
		cmd = m.activate(m.cursor, outline.ActivateUnfold)
	case key.Matches(msg, m.keys.ToggleTree):
		if row := m.session.ToggleHidden(m.cursor); row >= 0 {
			m.cursor = row
		}
	case key.Matches(msg, m.keys.ExpandAll):
		m.restructure(m.session.ExpandAll)
	case key.Matches(msg, m.keys.CollapseAll):
		m.restructure(m.session.CollapseAll)
	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing " + m.src.Name())
		cmd = m.startLoad()
	case key.Matches(msg, m.keys.Copy):
		m.copyTaskLink()
	case key.Matches(msg, m.keys.Close):
		if m.openTask != "" {
			m.openTask = ""
			m.layout()
		}
	case key.Matches(msg, m.keys.Project):
		cmd = m.switchFavorite(int(msg.String()[0] - '0'))
	}
	m.clampCursor()
	return false, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	inDetail := m.detailVisible() && !m.inOutline(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if inDetail {
			m.detail.SetYOffset(m.detail.YOffset - wheelStep)
		} else {
			m.moveCursor(-wheelStep)
		}
	case tea.MouseButtonWheelDown:
		if inDetail {
			m.detail.SetYOffset(m.detail.YOffset + wheelStep)
		} else {
			m.moveCursor(wheelStep)
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || !m.inOutline(msg.X, msg.Y) {
			return nil
		}
		row := m.outline.YOffset + msg.Y - headerHeight
		if row < 0 || row >= m.session.Size() {
			return nil
		}
		m.clearStatus()
		now := m.now()
		if row == m.lastClickRow && now.Sub(m.lastClickAt) <= DoubleClickWindow {
			m.lastClickRow = -1
			m.cursor = row
			return m.activate(row, outline.ActivateDefault)
		}
		m.lastClickRow, m.lastClickAt = row, now
		m.cursor = row
	}
	return nil
}

// activate applies an activation and follows its outcome. Opening a task on
// a source that can re-read single tasks also fetches its current state.
func (m *Model) activate(row int, kind outline.Activation) tea.Cmd {
	out := m.session.Activate(row, kind)
	if out.Tree < 0 {
		return nil
	}
	if out.Goto >= 0 {
		m.cursor = out.Goto
	}
	m.clampCursor()
	if out.Open == "" {
		return nil
	}

	m.openTask = model.ID(out.Open)
	m.fresh = nil
	m.layout()
	m.refreshDetail()
	m.detail.GotoTop()
	if ts, ok := m.src.(datasource.TaskSource); ok {
		return LoadTaskCmd(ts, m.seq, m.openTask, m.cfg.Timeout)
	}
	return nil
}

// applyTask shows a re-read task in the detail pane if it is still open.
func (m *Model) applyTask(msg TaskMsg) {
	if msg.Seq != m.seq || msg.ID != m.openTask {
		return
	}
	if msg.Err != nil {
		debug.Log("ui: reloading task #%s failed: %v", msg.ID, msg.Err)
		m.setError(fmt.Sprintf("Reloading task #%s failed: %v", msg.ID, msg.Err))
		return
	}
	t := msg.Task
	m.fresh = &t
	m.refreshDetail()
}

// openTaskData returns the freshest copy of the open task.
func (m *Model) openTaskData() (model.Task, bool) {
	if m.fresh != nil && m.fresh.ID == m.openTask {
		return *m.fresh, true
	}
	return m.snapshot.TaskByID(m.openTask)
}

// restructure runs a whole-session fold change and keeps the cursor on the
// same node, or on its tree's root line when the node disappeared.
func (m *Model) restructure(change func()) {
	anchor, hasAnchor := m.cursorNode()
	tree, _, _ := m.session.Locate(m.cursor)

	change()

	if hasAnchor {
		if row := m.rowOf(anchor); row >= 0 {
			m.cursor = row
			return
		}
	}
	if off := m.session.Offset(tree); off >= 0 {
		m.cursor = off
	}
}

func (m *Model) switchFavorite(n int) tea.Cmd {
	p := m.cfg.FavoriteProject(n)
	if p == nil {
		m.setError(fmt.Sprintf("No project on key %d", n))
		return nil
	}
	if p.ID == m.cfg.ProjectID {
		return nil
	}
	src, ok := datasource.ForProject(m.src, p.ID)
	if !ok {
		m.setError(fmt.Sprintf("%s holds a single board", m.src.Name()))
		return nil
	}

	debug.Log("ui: switching to project %s (%d)", p.Name, p.ID)
	m.src = src
	m.cfg.ProjectID = p.ID
	m.seq++
	m.session = outline.NewSession()
	m.snapshot = model.Snapshot{}
	m.loaded, m.loading, m.pending = false, false, false
	m.openTask = ""
	m.fresh = nil
	m.cursor = 0
	m.layout()
	m.setStatus("Switching to " + p.Name)

	return tea.Batch(m.startLoad(), m.tickCmd())
}

func (m *Model) copyTaskLink() {
	t, ok := m.selectedTask()
	if !ok {
		m.setError("No task selected")
		return
	}
	text := t.URL
	if text == "" {
		text = "#" + t.ID.String()
	}
	if err := m.clipboard(text); err != nil {
		m.setError(fmt.Sprintf("Clipboard error: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s to clipboard", text))
}

// selectedTask is the task under the cursor, else the task in the detail pane.
func (m *Model) selectedTask() (model.Task, bool) {
	if n, ok := m.session.NodeAt(m.cursor); ok && n.Kind == outline.KindLeaf {
		if id := model.ID(n.RecordID); id != m.openTask {
			return m.snapshot.TaskByID(id)
		}
		return m.openTaskData()
	}
	if m.openTask != "" {
		return m.openTaskData()
	}
	return model.Task{}, false
}

func (m *Model) cursorNode() (outline.NodeID, bool) {
	lines := m.session.Lines()
	if m.cursor < 0 || m.cursor >= len(lines) {
		return "", false
	}
	return lines[m.cursor].NodeID, true
}

// rowOf returns the absolute row of a node in the last render, or -1.
func (m *Model) rowOf(id outline.NodeID) int {
	for i, t := range m.session.Trees() {
		if line, ok := t.LineOf(id); ok {
			return m.session.Offset(i) + line
		}
	}
	return -1
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if n := m.session.Size(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string) {
	m.statusMsg, m.statusIsError = s, false
}

func (m *Model) setError(s string) {
	m.statusMsg, m.statusIsError = s, true
}

func (m *Model) clearStatus() {
	m.statusMsg, m.statusIsError = "", false
}

// Stop releases the file watcher.
func (m *Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// Session exposes the installed outlines.
func (m Model) Session() *outline.Session { return m.session }

// Cursor is the absolute row under the cursor.
func (m Model) Cursor() int { return m.cursor }

// OpenTask is the task shown in the detail pane, or "".
func (m Model) OpenTask() model.ID { return m.openTask }

// Status returns the status bar message and whether it reports an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// Loaded reports whether a snapshot has been installed.
func (m Model) Loaded() bool { return m.loaded }

// Source is the source currently read from.
func (m Model) Source() datasource.Source { return m.src }
