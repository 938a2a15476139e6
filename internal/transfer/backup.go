package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"worklog/internal/store"
)

// BackupVersion is the current backup document version.
const BackupVersion = 1

// ErrBadFormat marks input that was rejected before touching the store.
var ErrBadFormat = errors.New("bad format")

// backupDocument is the full-state export:
// { version, exportedAt, jobs, todos }.
// Pointer slices distinguish a missing collection from an empty one.
type backupDocument struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	Jobs       *[]jobRecord  `json:"jobs"`
	Todos      *[]todoRecord `json:"todos"`
}

// Export writes a backup document covering both collections.
func Export(ctx context.Context, st store.Store, w io.Writer, now time.Time) error {
	jobs, err := st.GetAllJobs(ctx)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}
	todos, err := st.GetAllTodos(ctx)
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}

	jobRecs := make([]jobRecord, 0, len(jobs))
	for _, j := range jobs {
		jobRecs = append(jobRecs, jobToRecord(j))
	}
	todoRecs := make([]todoRecord, 0, len(todos))
	for _, t := range todos {
		todoRecs = append(todoRecs, todoToRecord(t))
	}

	doc := backupDocument{
		Version:    BackupVersion,
		ExportedAt: now.UTC(),
		Jobs:       &jobRecs,
		Todos:      &todoRecs,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Restore replaces the entire contents of both collections with the
// backup document read from r. The document is parsed and checked in
// full before the first store write, so a malformed file is rejected
// wholesale. The caller is expected to run a full recheck afterwards.
func Restore(ctx context.Context, st store.Store, r io.Reader) (jobs, todos int, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, 0, fmt.Errorf("read backup: %w", err)
	}

	var doc backupDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if doc.Version < 1 || doc.Version > BackupVersion {
		return 0, 0, fmt.Errorf("%w: unsupported backup version %d", ErrBadFormat, doc.Version)
	}
	if doc.Jobs == nil || doc.Todos == nil {
		return 0, 0, fmt.Errorf("%w: backup document missing jobs or todos collection", ErrBadFormat)
	}

	if err := clearStore(ctx, st); err != nil {
		return 0, 0, err
	}

	for _, rec := range *doc.Jobs {
		job := recordToJob(rec)
		if err := st.PutJob(ctx, &job); err != nil {
			return jobs, todos, fmt.Errorf("restore job %s: %w", job.ID, err)
		}
		jobs++
	}
	for _, rec := range *doc.Todos {
		todo := recordToTodo(rec)
		if err := st.PutTodo(ctx, &todo); err != nil {
			return jobs, todos, fmt.Errorf("restore todo %s: %w", todo.ID, err)
		}
		todos++
	}
	return jobs, todos, nil
}

func clearStore(ctx context.Context, st store.Store) error {
	jobs, err := st.GetAllJobs(ctx)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}
	for i := range jobs {
		if err := st.DeleteJob(ctx, jobs[i].ID); err != nil {
			return fmt.Errorf("clear job %s: %w", jobs[i].ID, err)
		}
	}
	todos, err := st.GetAllTodos(ctx)
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}
	for i := range todos {
		if err := st.DeleteTodo(ctx, todos[i].ID); err != nil {
			return fmt.Errorf("clear todo %s: %w", todos[i].ID, err)
		}
	}
	return nil
}
