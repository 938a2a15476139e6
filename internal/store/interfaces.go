package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// JobStore handles the persistence of job entries.
type JobStore interface {
	// GetAllJobs returns every job entry.
	GetAllJobs(ctx context.Context) ([]JobEntry, error)

	// PutJob upserts a job entry by ID.
	PutJob(ctx context.Context, job *JobEntry) error

	// DeleteJob removes a job entry. Returns ErrNotFound if no row matched.
	DeleteJob(ctx context.Context, id uuid.UUID) error
}

// TodoStore handles the persistence of to-do entries.
type TodoStore interface {
	// GetAllTodos returns every to-do entry.
	GetAllTodos(ctx context.Context) ([]TodoEntry, error)

	// PutTodo upserts a to-do entry by ID.
	PutTodo(ctx context.Context, todo *TodoEntry) error

	// DeleteTodo removes a to-do entry. Returns ErrNotFound if no row matched.
	DeleteTodo(ctx context.Context, id uuid.UUID) error
}

// Store combines both record collections behind one handle.
type Store interface {
	JobStore
	TodoStore
}
