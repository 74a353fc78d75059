package kanboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/kbtree/pkg/debug"
	"github.com/vanderheijden86/kbtree/pkg/metrics"
	"github.com/vanderheijden86/kbtree/pkg/model"
)

// Task status filters for GetAllTasks.
const (
	StatusClosed = 0
	StatusOpen   = 1
)

type projectParams struct {
	ProjectID int64 `json:"project_id"`
}

type tasksParams struct {
	ProjectID int64 `json:"project_id"`
	StatusID  int   `json:"status_id"`
}

type taskParams struct {
	TaskID int64 `json:"task_id"`
}

// GetProjectByID returns a project.
func (c *Client) GetProjectByID(ctx context.Context, projectID int64) (model.Project, error) {
	var p model.Project
	err := c.Call(ctx, GetProjectByID, projectParams{ProjectID: projectID}, &p)
	return p, err
}

// GetAllSwimlanes returns every swimlane of a project, active or not.
func (c *Client) GetAllSwimlanes(ctx context.Context, projectID int64) ([]model.Swimlane, error) {
	var lanes []model.Swimlane
	err := c.Call(ctx, GetAllSwimlanes, projectParams{ProjectID: projectID}, &lanes)
	return lanes, err
}

// GetColumns returns the columns of a project.
func (c *Client) GetColumns(ctx context.Context, projectID int64) ([]model.Column, error) {
	var cols []model.Column
	err := c.Call(ctx, GetColumns, projectParams{ProjectID: projectID}, &cols)
	return cols, err
}

// GetAllTasks returns the tasks of a project with the given status.
func (c *Client) GetAllTasks(ctx context.Context, projectID int64, statusID int) ([]model.Task, error) {
	var tasks []model.Task
	err := c.Call(ctx, GetAllTasks, tasksParams{ProjectID: projectID, StatusID: statusID}, &tasks)
	return tasks, err
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, taskID int64) (model.Task, error) {
	var t model.Task
	err := c.Call(ctx, GetTask, taskParams{TaskID: taskID}, &t)
	return t, err
}

// FetchSnapshot reads everything needed to draw a project's outline. The
// four calls run concurrently; the first failure cancels the rest and is
// returned. A project with no swimlanes, columns or tasks yields empty
// slices rather than ErrNoResult.
func (c *Client) FetchSnapshot(ctx context.Context, projectID int64, statusID int) (model.Snapshot, error) {
	defer metrics.Timer(metrics.Fetch)()
	start := time.Now()

	var snap model.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := c.GetProjectByID(ctx, projectID)
		if err != nil {
			return fmt.Errorf("loading project %d: %w", projectID, err)
		}
		snap.Project = p
		return nil
	})
	g.Go(func() error {
		lanes, err := c.GetAllSwimlanes(ctx, projectID)
		if err != nil && !errors.Is(err, ErrNoResult) {
			return fmt.Errorf("loading swimlanes: %w", err)
		}
		snap.Swimlanes = lanes
		return nil
	})
	g.Go(func() error {
		cols, err := c.GetColumns(ctx, projectID)
		if err != nil && !errors.Is(err, ErrNoResult) {
			return fmt.Errorf("loading columns: %w", err)
		}
		snap.Columns = cols
		return nil
	})
	g.Go(func() error {
		tasks, err := c.GetAllTasks(ctx, projectID, statusID)
		if err != nil && !errors.Is(err, ErrNoResult) {
			return fmt.Errorf("loading tasks: %w", err)
		}
		snap.Tasks = tasks
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.FetchErrors.Inc()
		return model.Snapshot{}, err
	}

	snap.FetchedAt = time.Now()
	debug.Log("kanboard: project %d: %d swimlanes, %d columns, %d tasks in %v",
		projectID, len(snap.Swimlanes), len(snap.Columns), len(snap.Tasks), time.Since(start))
	return snap, nil
}
