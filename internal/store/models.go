// Package store contains the database layer for worklog.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Category is the closed classification a record must carry.
// A to-do can only be satisfied by a job in the same category.
type Category string

const (
	CategoryCLS Category = "CLS"
	CategoryINT Category = "INT"
)

// Categories lists every valid category. The first entry is the default
// used when legacy or imported records carry an unknown value.
var Categories = []Category{CategoryCLS, CategoryINT}

// DefaultCategory is applied to records whose category is absent or
// not in the closed set.
func DefaultCategory() Category {
	return Categories[0]
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// JobEntry is a logged record of work performed on a date.
type JobEntry struct {
	ID         uuid.UUID
	Category   Category
	Date       string // ISO day, e.g. "2026-08-28"
	PartNumber string
	WorkOrder  string
	TaskCode   string
	Trainer    string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// TodoMatched is true once at least one to-do has been satisfied
	// by this job. It is never auto-cleared; see reconcile.Engine.
	TodoMatched    bool
	MatchedTodoIDs []uuid.UUID
}

// AddMatchedTodo appends id to MatchedTodoIDs unless already present.
// It returns true if the set changed.
func (j *JobEntry) AddMatchedTodo(id uuid.UUID) bool {
	for _, existing := range j.MatchedTodoIDs {
		if existing == id {
			return false
		}
	}
	j.MatchedTodoIDs = append(j.MatchedTodoIDs, id)
	return true
}

// TodoEntry is an outstanding training requirement awaiting a matching job.
type TodoEntry struct {
	ID         uuid.UUID
	Category   Category
	PartNumber string
	WorkOrder  string
	TaskCode   string
	Notes      string
	CreatedAt  time.Time

	// Done is terminal: the engine never transitions a done to-do
	// back to open.
	Done         bool
	DoneAt       *time.Time
	MatchedJobID *uuid.UUID
}
