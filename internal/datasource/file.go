package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/kbtree/pkg/metrics"
	"github.com/vanderheijden86/kbtree/pkg/model"
)

// FileSource reads a board from a JSON snapshot file with the same shape
// as model.Snapshot.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the snapshot at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Type() SourceType { return SourceTypeFile }

func (s *FileSource) Name() string { return s.path }

func (s *FileSource) Load(ctx context.Context) (model.Snapshot, error) {
	defer metrics.Timer(metrics.Fetch)()

	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		metrics.FetchErrors.Inc()
		return model.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		metrics.FetchErrors.Inc()
		return model.Snapshot{}, fmt.Errorf("parsing snapshot %s: %w", s.path, err)
	}
	return snap, nil
}

// WriteSnapshot saves snap to path in the format FileSource reads. The file
// is written next to its destination and renamed into place, so a watcher
// on path never sees a partial file.
func WriteSnapshot(path string, snap model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".kbt-snapshot-*")
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
