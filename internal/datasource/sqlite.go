package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/kbtree/pkg/debug"
	"github.com/vanderheijden86/kbtree/pkg/metrics"
	"github.com/vanderheijden86/kbtree/pkg/model"
)

// ErrProjectNotFound is returned when the database has no such project.
var ErrProjectNotFound = errors.New("project not found")

// SQLiteSource reads a project straight from a Kanboard SQLite database.
// The database is opened read-only for each load so that a file replaced
// underneath kbt is picked up on the next refresh.
type SQLiteSource struct {
	path      string
	projectID int64
	statusID  int
}

// NewSQLiteSource returns a source for one project in the database at path.
func NewSQLiteSource(path string, projectID int64, statusID int) *SQLiteSource {
	return &SQLiteSource{path: path, projectID: projectID, statusID: statusID}
}

func (s *SQLiteSource) Type() SourceType { return SourceTypeSQLite }

func (s *SQLiteSource) Name() string {
	return fmt.Sprintf("%s project %d", s.path, s.projectID)
}

// WithProject returns a copy of the source reading another project.
func (s *SQLiteSource) WithProject(projectID int64) *SQLiteSource {
	c := *s
	c.projectID = projectID
	return &c
}

func openReadOnly(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *SQLiteSource) Load(ctx context.Context) (model.Snapshot, error) {
	defer metrics.Timer(metrics.Fetch)()
	start := time.Now()

	db, err := openReadOnly(s.path)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer db.Close()

	var snap model.Snapshot
	if snap.Project, err = s.loadProject(ctx, db); err != nil {
		metrics.FetchErrors.Inc()
		return model.Snapshot{}, err
	}
	if snap.Swimlanes, err = s.loadSwimlanes(ctx, db); err != nil {
		metrics.FetchErrors.Inc()
		return model.Snapshot{}, err
	}
	if snap.Columns, err = s.loadColumns(ctx, db); err != nil {
		metrics.FetchErrors.Inc()
		return model.Snapshot{}, err
	}
	if snap.Tasks, err = s.loadTasks(ctx, db); err != nil {
		metrics.FetchErrors.Inc()
		return model.Snapshot{}, err
	}
	snap.FetchedAt = time.Now()

	debug.Log("sqlite: %s project %d: %d swimlanes, %d columns, %d tasks in %v",
		s.path, s.projectID, len(snap.Swimlanes), len(snap.Columns), len(snap.Tasks), time.Since(start))
	return snap, nil
}

func (s *SQLiteSource) loadProject(ctx context.Context, db *sql.DB) (model.Project, error) {
	var (
		p           model.Project
		id          int64
		description sql.NullString
		isActive    sql.NullInt64
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, is_active FROM projects WHERE id = ?`, s.projectID,
	).Scan(&id, &p.Name, &description, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("loading project %d: %w", s.projectID, ErrProjectNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("loading project %d: %w", s.projectID, err)
	}
	p.ID = model.IDFromInt(id)
	p.Description = description.String
	p.IsActive = model.Flag(isActive.Int64 == 1)
	return p, nil
}

func (s *SQLiteSource) loadSwimlanes(ctx context.Context, db *sql.DB) ([]model.Swimlane, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, position, is_active
		FROM swimlanes
		WHERE project_id = ?
		ORDER BY position, id`, s.projectID)
	if err != nil {
		return nil, fmt.Errorf("loading swimlanes: %w", err)
	}
	defer rows.Close()

	var lanes []model.Swimlane
	for rows.Next() {
		var (
			l           model.Swimlane
			id          int64
			description sql.NullString
			position    sql.NullInt64
			isActive    sql.NullInt64
		)
		if err := rows.Scan(&id, &l.Name, &description, &position, &isActive); err != nil {
			return nil, fmt.Errorf("scanning swimlane: %w", err)
		}
		l.ID = model.IDFromInt(id)
		l.Description = description.String
		l.Position = model.Int(position.Int64)
		l.IsActive = model.Flag(isActive.Int64 == 1)
		l.ProjectID = model.IDFromInt(s.projectID)
		lanes = append(lanes, l)
	}
	return lanes, rows.Err()
}

func (s *SQLiteSource) loadColumns(ctx context.Context, db *sql.DB) ([]model.Column, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, position, task_limit, description
		FROM columns
		WHERE project_id = ?
		ORDER BY position, id`, s.projectID)
	if err != nil {
		return nil, fmt.Errorf("loading columns: %w", err)
	}
	defer rows.Close()

	var cols []model.Column
	for rows.Next() {
		var (
			c           model.Column
			id          int64
			position    sql.NullInt64
			taskLimit   sql.NullInt64
			description sql.NullString
		)
		if err := rows.Scan(&id, &c.Title, &position, &taskLimit, &description); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		c.ID = model.IDFromInt(id)
		c.Position = model.Int(position.Int64)
		c.TaskLimit = model.Int(taskLimit.Int64)
		c.Description = description.String
		c.ProjectID = model.IDFromInt(s.projectID)
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *SQLiteSource) loadTasks(ctx context.Context, db *sql.DB) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, description, column_id, swimlane_id, position,
		       color_id, is_active, owner_id, priority, date_due,
		       date_creation, date_modification, reference
		FROM tasks
		WHERE project_id = ? AND is_active = ?
		ORDER BY position, id`, s.projectID, s.statusID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			t                                   model.Task
			id, columnID, swimlaneID            int64
			description, colorID, reference     sql.NullString
			position, isActive, ownerID         sql.NullInt64
			priority, dateDue, created, updated sql.NullInt64
		)
		if err := rows.Scan(
			&id, &t.Title, &description, &columnID, &swimlaneID, &position,
			&colorID, &isActive, &ownerID, &priority, &dateDue,
			&created, &updated, &reference,
		); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t.ID = model.IDFromInt(id)
		t.ProjectID = model.IDFromInt(s.projectID)
		t.ColumnID = model.IDFromInt(columnID)
		t.SwimlaneID = model.IDFromInt(swimlaneID)
		t.Description = description.String
		t.ColorID = colorID.String
		t.Reference = reference.String
		t.Position = model.Int(position.Int64)
		t.IsActive = model.Flag(isActive.Int64 == 1)
		if ownerID.Int64 > 0 {
			t.OwnerID = model.IDFromInt(ownerID.Int64)
		}
		t.Priority = model.Int(priority.Int64)
		t.DateDue = model.Int(dateDue.Int64)
		t.DateCreation = model.Int(created.Int64)
		t.DateModified = model.Int(updated.Int64)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
