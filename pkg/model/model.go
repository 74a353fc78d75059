// Package model holds the Kanboard records kbt reads from a datasource.
//
// Kanboard's JSON-RPC API is loose about scalar types: the same field may
// arrive as "3", 3, or null depending on the backend database. ID, Int and
// Flag accept every form so the rest of the program deals in one type.
package model

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// ID is a Kanboard record identifier in canonical decimal form. The zero
// value means "no id".
type ID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ID(s)
	default:
		n, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("decoding id %s: %w", data, err)
		}
		*id = ID(strconv.FormatInt(n, 10))
	}
	return nil
}

// Int returns the id as an integer.
func (id ID) Int() (int64, error) {
	return strconv.ParseInt(string(id), 10, 64)
}

func (id ID) String() string {
	return string(id)
}

// IDFromInt formats an integer id.
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// Int is an integer that may be encoded as a JSON string.
type Int int64

// UnmarshalJSON accepts a JSON number, a numeric string, an empty string or null.
func (n *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding integer: %w", err)
		}
		data = []byte(s)
		if len(data) == 0 {
			*n = 0
			return nil
		}
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("decoding integer %s: %w", data, err)
	}
	*n = Int(v)
	return nil
}

// Flag is a Kanboard boolean: "1", 1 and true are set; "0", 0, false, "" and
// null are clear.
type Flag bool

// UnmarshalJSON accepts the boolean spellings Kanboard emits.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case `"1"`, `1`, `true`, `"true"`:
		*f = true
	case `"0"`, `0`, `false`, `"false"`, `""`, `null`:
		*f = false
	default:
		return fmt.Errorf("decoding flag: unexpected value %s", data)
	}
	return nil
}

// MarshalJSON writes the flag the way Kanboard does.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"1"`), nil
	}
	return []byte(`"0"`), nil
}

// Project is a Kanboard project.
type Project struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    Flag   `json:"is_active"`
	URL         URLSet `json:"url,omitempty"`
}

// URLSet is the set of links Kanboard returns for a project.
type URLSet struct {
	Board    string `json:"board,omitempty"`
	List     string `json:"list,omitempty"`
	Calendar string `json:"calendar,omitempty"`
}

// Swimlane is a horizontal lane of a board. Each active swimlane becomes one
// outline.
type Swimlane struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Position    Int    `json:"position"`
	IsActive    Flag   `json:"is_active"`
	ProjectID   ID     `json:"project_id"`
}

// Column is a board column, shared by every swimlane of the project.
type Column struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Position    Int    `json:"position"`
	TaskLimit   Int    `json:"task_limit"`
	Description string `json:"description,omitempty"`
	ProjectID   ID     `json:"project_id"`
}

// Task is a card on the board.
type Task struct {
	ID           ID     `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ProjectID    ID     `json:"project_id"`
	ColumnID     ID     `json:"column_id"`
	SwimlaneID   ID     `json:"swimlane_id"`
	Position     Int    `json:"position"`
	ColorID      string `json:"color_id,omitempty"`
	IsActive     Flag   `json:"is_active"`
	OwnerID      ID     `json:"owner_id"`
	Priority     Int    `json:"priority"`
	DateDue      Int    `json:"date_due"`
	DateCreation Int    `json:"date_creation"`
	DateModified Int    `json:"date_modification"`
	Reference    string `json:"reference,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Due returns the due date, or the zero time when none is set.
func (t Task) Due() time.Time {
	if t.DateDue <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(t.DateDue), 0)
}

// Snapshot is everything one refresh reads for a project.
type Snapshot struct {
	Project   Project    `json:"project"`
	Swimlanes []Swimlane `json:"swimlanes"`
	Columns   []Column   `json:"columns"`
	Tasks     []Task     `json:"tasks"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// TaskByID returns the task with the given id.
func (s *Snapshot) TaskByID(id ID) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ColumnByID returns the column with the given id.
func (s *Snapshot) ColumnByID(id ID) (Column, bool) {
	for _, c := range s.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// SwimlaneByID returns the swimlane with the given id.
func (s *Snapshot) SwimlaneByID(id ID) (Swimlane, bool) {
	for _, l := range s.Swimlanes {
		if l.ID == id {
			return l, true
		}
	}
	return Swimlane{}, false
}
