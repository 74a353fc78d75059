// Package datasource loads Kanboard board snapshots for kbt. A board can be
// read from the JSON-RPC API, straight from a Kanboard SQLite database, or
// from a JSON snapshot file written by an earlier run.
package datasource

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vanderheijden86/kbtree/pkg/config"
	"github.com/vanderheijden86/kbtree/pkg/kanboard"
	"github.com/vanderheijden86/kbtree/pkg/model"
	"github.com/vanderheijden86/kbtree/pkg/watcher"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeRPC is a Kanboard JSON-RPC endpoint
	SourceTypeRPC SourceType = "rpc"
	// SourceTypeSQLite is a Kanboard SQLite database (data/db.sqlite)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeFile is a JSON snapshot file
	SourceTypeFile SourceType = "file"
)

// Source loads one snapshot of a board per call.
type Source interface {
	// Type reports the kind of source.
	Type() SourceType
	// Name describes the source for status lines and logs.
	Name() string
	// Load reads a fresh snapshot. On error the snapshot is zero.
	Load(ctx context.Context) (model.Snapshot, error)
}

// TaskSource is a Source that can re-read one task without loading the
// whole board.
type TaskSource interface {
	Source
	LoadTask(ctx context.Context, id model.ID) (model.Task, error)
}

// Info describes a file-backed source on disk.
type Info struct {
	Type    SourceType `json:"type"`
	Path    string     `json:"path"`
	ModTime time.Time  `json:"mod_time"`
	Size    int64      `json:"size"`
}

// String returns a human-readable description of the source file
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, mod=%s, %d bytes)", i.Path, i.Type, i.ModTime.Format(time.RFC3339), i.Size)
}

// Stat returns on-disk details for file-backed sources. ok is false for
// sources without a file.
func Stat(src Source) (Info, bool, error) {
	path := WatchPath(src)
	if path == "" {
		return Info{}, false, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, true, fmt.Errorf("stat %s: %w", path, err)
	}
	return Info{Type: src.Type(), Path: path, ModTime: fi.ModTime(), Size: fi.Size()}, true, nil
}

// Open builds the source selected by cfg. cfg should already be validated.
func Open(cfg config.Config) (Source, error) {
	switch cfg.Source {
	case config.SourceRPC:
		client, err := kanboard.New(kanboard.Options{
			URL:        cfg.URL,
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthHeader: cfg.AuthHeader,
			CAFile:     cfg.CAFile,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return NewRPCSource(client, cfg.URL, cfg.ProjectID, cfg.StatusID), nil

	case config.SourceSQLite:
		return NewSQLiteSource(cfg.Database, cfg.ProjectID, cfg.StatusID), nil

	case config.SourceFile:
		return NewFileSource(cfg.Snapshot), nil

	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Source)
	}
}

// WatchPath returns the file a watcher should follow for src, or "" when the
// source has to be polled over the network.
func WatchPath(src Source) string {
	switch s := src.(type) {
	case *SQLiteSource:
		return s.path
	case *FileSource:
		return s.path
	default:
		return ""
	}
}

// WatchOptions returns the watcher options needed to notice every write to
// the file behind src.
func WatchOptions(src Source) []watcher.WatcherOption {
	if _, ok := src.(*SQLiteSource); ok {
		return []watcher.WatcherOption{watcher.WithCompanions("-wal")}
	}
	return nil
}

// ForProject returns src retargeted at another project. File sources hold a
// single board and report false.
func ForProject(src Source, projectID int64) (Source, bool) {
	switch s := src.(type) {
	case *RPCSource:
		return s.WithProject(projectID), true
	case *SQLiteSource:
		return s.WithProject(projectID), true
	default:
		return src, false
	}
}
