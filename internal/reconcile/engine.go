// Package reconcile keeps job and to-do completion state consistent.
//
// Every entry point (job saved, to-do saved or imported, manual recheck)
// runs to completion before the next is accepted; store writes happen one
// record at a time so an error never leaves memory ahead of disk by more
// than the record being written. A done to-do is terminal: the engine
// never reopens it, and it never clears a job's TodoMatched flag, only
// sets it. That keeps paperwork a user already filed against a match from
// silently reverting.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"worklog/internal/logger"
	"worklog/internal/metrics"
	"worklog/internal/store"
)

// Matcher decides whether a to-do and a job denote the same task.
// The engine depends only on this interface so the rule can change
// without touching orchestration.
type Matcher interface {
	Matches(todo *store.TodoEntry, job *store.JobEntry) bool
}

// Engine orchestrates the match predicate over the two collections.
type Engine struct {
	store   store.Store
	matcher Matcher
	sink    metrics.Sink
	logger  *slog.Logger
	clock   func() time.Time
}

// New creates a reconciliation engine.
func New(st store.Store, matcher Matcher, sink metrics.Sink, logger *slog.Logger) *Engine {
	return &Engine{
		store:   st,
		matcher: matcher,
		sink:    sink,
		logger:  logger,
		clock:   time.Now,
	}
}

// Report summarizes a full reconciliation pass.
type Report struct {
	TodosCompleted int
	JobsFlagged    int
	Passes         int
}

// OnJobSaved runs the forward direction: the just-saved job is checked
// against every open to-do. Matched to-dos are completed and the job is
// flagged. Returns the to-dos that were completed. Calling it again with
// the same state is a no-op, since completed to-dos are no longer open.
func (e *Engine) OnJobSaved(ctx context.Context, job *store.JobEntry) ([]store.TodoEntry, error) {
	todos, err := e.store.GetAllTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}

	var hits []store.TodoEntry
	for _, t := range todos {
		if t.Done {
			continue
		}
		if e.matcher.Matches(&t, job) {
			hits = append(hits, t)
		}
	}
	if len(hits) == 0 {
		return nil, nil
	}

	job.TodoMatched = true
	for i := range hits {
		job.AddMatchedTodo(hits[i].ID)
	}
	job.UpdatedAt = e.clock().UTC()
	if err := e.store.PutJob(ctx, job); err != nil {
		return nil, fmt.Errorf("persist job %s: %w", job.ID, err)
	}

	log := logger.FromContext(ctx, e.logger)
	now := e.clock().UTC()
	for i := range hits {
		e.completeTodo(&hits[i], job.ID, now)
		if err := e.store.PutTodo(ctx, &hits[i]); err != nil {
			return hits[:i], fmt.Errorf("persist todo %s: %w", hits[i].ID, err)
		}
		e.sink.MatchFound(metrics.DirectionForward)
		log.Info("todo satisfied by job",
			"todo_id", hits[i].ID,
			"job_id", job.ID,
			"category", job.Category)
	}

	return hits, nil
}

// OnTodoSaved runs the reverse direction for a newly created or imported
// to-do. Jobs in the same category are scanned newest first, preferring
// recent work; the first match completes the to-do. Policy, not contract:
// the ordering exists only to make the choice deterministic when several
// jobs qualify. Returns the satisfying job, or nil when the to-do stays
// open.
func (e *Engine) OnTodoSaved(ctx context.Context, todo *store.TodoEntry) (*store.JobEntry, error) {
	if todo.Done {
		return nil, nil
	}

	jobs, err := e.store.GetAllJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	sortJobsNewestFirst(jobs)

	for i := range jobs {
		job := &jobs[i]
		if !e.matcher.Matches(todo, job) {
			continue
		}

		now := e.clock().UTC()
		e.completeTodo(todo, job.ID, now)
		if err := e.store.PutTodo(ctx, todo); err != nil {
			return nil, fmt.Errorf("persist todo %s: %w", todo.ID, err)
		}

		job.TodoMatched = true
		job.AddMatchedTodo(todo.ID)
		job.UpdatedAt = now
		if err := e.store.PutJob(ctx, job); err != nil {
			return nil, fmt.Errorf("persist job %s: %w", job.ID, err)
		}

		e.sink.MatchFound(metrics.DirectionReverse)
		logger.FromContext(ctx, e.logger).Info("todo satisfied on save",
			"todo_id", todo.ID,
			"job_id", job.ID,
			"category", todo.Category)
		return job, nil
	}

	return nil, nil
}

// RecheckAll is the manual repair pass: edits, imports and deletes can
// leave derived flags behind what the predicate would now conclude.
// It coerces legacy categories to the default, then alternates to-do and
// job scans until a full pass produces no new matches or no open to-dos
// remain. Done to-dos are never reopened and TodoMatched is never
// cleared; the pass only adds state.
func (e *Engine) RecheckAll(ctx context.Context) (Report, error) {
	start := e.clock()
	var report Report

	jobs, err := e.store.GetAllJobs(ctx)
	if err != nil {
		return report, fmt.Errorf("load jobs: %w", err)
	}
	todos, err := e.store.GetAllTodos(ctx)
	if err != nil {
		return report, fmt.Errorf("load todos: %w", err)
	}

	if err := e.repairCategories(ctx, jobs, todos); err != nil {
		return report, err
	}
	sortJobsNewestFirst(jobs)

	for {
		report.Passes++
		matched, err := e.recheckPass(ctx, jobs, todos, &report)
		if err != nil {
			return report, err
		}
		if matched == 0 || openCount(todos) == 0 {
			break
		}
	}

	e.sink.RecheckCompleted(e.clock().Sub(start), report.TodosCompleted)
	logger.FromContext(ctx, e.logger).Info("recheck complete",
		"todos_completed", report.TodosCompleted,
		"jobs_flagged", report.JobsFlagged,
		"passes", report.Passes)
	return report, nil
}

// recheckPass runs one to-do scan followed by one job scan and returns
// the number of to-dos completed.
func (e *Engine) recheckPass(ctx context.Context, jobs []store.JobEntry, todos []store.TodoEntry, report *Report) (int, error) {
	matched := 0

	// Reverse direction: each open to-do against jobs, newest first.
	for i := range todos {
		t := &todos[i]
		if t.Done {
			continue
		}
		for j := range jobs {
			job := &jobs[j]
			if !e.matcher.Matches(t, job) {
				continue
			}
			if err := e.applyMatch(ctx, t, job, report); err != nil {
				return matched, err
			}
			matched++
			break
		}
	}

	// Forward direction: each job against any still-open to-do. After the
	// scan above this mostly repairs jobs, but it keeps the pass aligned
	// with what saving each job would do.
	for j := range jobs {
		job := &jobs[j]
		for i := range todos {
			t := &todos[i]
			if t.Done {
				continue
			}
			if !e.matcher.Matches(t, job) {
				continue
			}
			if err := e.applyMatch(ctx, t, job, report); err != nil {
				return matched, err
			}
			matched++
		}
	}

	return matched, nil
}

// applyMatch completes t against job and persists both records.
func (e *Engine) applyMatch(ctx context.Context, t *store.TodoEntry, job *store.JobEntry, report *Report) error {
	now := e.clock().UTC()
	e.completeTodo(t, job.ID, now)
	if err := e.store.PutTodo(ctx, t); err != nil {
		return fmt.Errorf("persist todo %s: %w", t.ID, err)
	}
	report.TodosCompleted++

	if !job.TodoMatched {
		report.JobsFlagged++
	}
	job.TodoMatched = true
	job.AddMatchedTodo(t.ID)
	job.UpdatedAt = now
	if err := e.store.PutJob(ctx, job); err != nil {
		return fmt.Errorf("persist job %s: %w", job.ID, err)
	}

	e.sink.MatchFound(metrics.DirectionForward)
	return nil
}

// repairCategories coerces unknown categories to the default and
// persists the repaired records. Legacy data is fixed, not rejected.
func (e *Engine) repairCategories(ctx context.Context, jobs []store.JobEntry, todos []store.TodoEntry) error {
	for i := range jobs {
		if jobs[i].Category.Valid() {
			continue
		}
		jobs[i].Category = store.DefaultCategory()
		if err := e.store.PutJob(ctx, &jobs[i]); err != nil {
			return fmt.Errorf("repair job %s: %w", jobs[i].ID, err)
		}
	}
	for i := range todos {
		if todos[i].Category.Valid() {
			continue
		}
		todos[i].Category = store.DefaultCategory()
		if err := e.store.PutTodo(ctx, &todos[i]); err != nil {
			return fmt.Errorf("repair todo %s: %w", todos[i].ID, err)
		}
	}
	return nil
}

func (e *Engine) completeTodo(t *store.TodoEntry, jobID uuid.UUID, now time.Time) {
	t.Done = true
	t.DoneAt = &now
	id := jobID
	t.MatchedJobID = &id
}

func sortJobsNewestFirst(jobs []store.JobEntry) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID.String() > jobs[j].ID.String()
	})
}

func openCount(todos []store.TodoEntry) int {
	n := 0
	for i := range todos {
		if !todos[i].Done {
			n++
		}
	}
	return n
}
