package datasource

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/kbtree/pkg/kanboard"
	"github.com/vanderheijden86/kbtree/pkg/model"
)

// RPCSource reads a project through the Kanboard JSON-RPC API.
type RPCSource struct {
	client    *kanboard.Client
	url       string
	projectID int64
	statusID  int
}

// NewRPCSource returns a source for one project on a Kanboard server.
func NewRPCSource(client *kanboard.Client, url string, projectID int64, statusID int) *RPCSource {
	return &RPCSource{client: client, url: url, projectID: projectID, statusID: statusID}
}

func (s *RPCSource) Type() SourceType { return SourceTypeRPC }

func (s *RPCSource) Name() string {
	return fmt.Sprintf("%s project %d", s.url, s.projectID)
}

func (s *RPCSource) Load(ctx context.Context) (model.Snapshot, error) {
	return s.client.FetchSnapshot(ctx, s.projectID, s.statusID)
}

// LoadTask fetches the current state of one task.
func (s *RPCSource) LoadTask(ctx context.Context, id model.ID) (model.Task, error) {
	n, err := id.Int()
	if err != nil {
		return model.Task{}, fmt.Errorf("task id %q: %w", id, err)
	}
	return s.client.GetTask(ctx, n)
}

// WithProject returns a copy of the source reading another project.
func (s *RPCSource) WithProject(projectID int64) *RPCSource {
	c := *s
	c.projectID = projectID
	return &c
}
