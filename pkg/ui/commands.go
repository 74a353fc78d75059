package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/kbtree/internal/datasource"
	"github.com/vanderheijden86/kbtree/pkg/model"
	"github.com/vanderheijden86/kbtree/pkg/watcher"
)

// SnapshotMsg carries the result of one load. Seq ties it to the source that
// was current when the load started; results for a replaced source are
// dropped.
type SnapshotMsg struct {
	Seq      int
	Snapshot model.Snapshot
	Err      error
	Took     time.Duration
}

// FileChangedMsg is sent when the watched board file changes on disk
type FileChangedMsg struct{}

// refreshTickMsg drives interval refreshes for network sources.
type refreshTickMsg struct {
	seq int
}

// TaskMsg carries a fresh copy of the task open in the detail pane.
type TaskMsg struct {
	Seq  int
	ID   model.ID
	Task model.Task
	Err  error
}

// LoadCmd reads a snapshot from src off the UI goroutine.
func LoadCmd(src datasource.Source, seq int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		snap, err := src.Load(ctx)
		return SnapshotMsg{Seq: seq, Snapshot: snap, Err: err, Took: time.Since(start)}
	}
}

// LoadTaskCmd re-reads one task from src off the UI goroutine.
func LoadTaskCmd(src datasource.TaskSource, seq int, id model.ID, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		t, err := src.LoadTask(ctx, id)
		return TaskMsg{Seq: seq, ID: id, Task: t, Err: err}
	}
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func refreshTickCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return refreshTickMsg{seq: seq}
	})
}
