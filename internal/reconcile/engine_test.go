package reconcile

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"worklog/internal/match"
	"worklog/internal/metrics"
	"worklog/internal/store"
)

// fakeStore is an in-memory store.Store for engine tests.
type fakeStore struct {
	jobs  map[uuid.UUID]store.JobEntry
	todos map[uuid.UUID]store.TodoEntry

	jobPuts  int
	todoPuts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:  make(map[uuid.UUID]store.JobEntry),
		todos: make(map[uuid.UUID]store.TodoEntry),
	}
}

func (f *fakeStore) GetAllJobs(ctx context.Context) ([]store.JobEntry, error) {
	out := make([]store.JobEntry, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeStore) PutJob(ctx context.Context, job *store.JobEntry) error {
	f.jobPuts++
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeStore) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.jobs[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeStore) GetAllTodos(ctx context.Context) ([]store.TodoEntry, error) {
	out := make([]store.TodoEntry, 0, len(f.todos))
	for _, t := range f.todos {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) PutTodo(ctx context.Context, todo *store.TodoEntry) error {
	f.todoPuts++
	f.todos[todo.ID] = *todo
	return nil
}

func (f *fakeStore) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.todos[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.todos, id)
	return nil
}

func newTestEngine(fs *fakeStore) *Engine {
	e := New(fs, match.Predicate{}, metrics.NewNoopSink(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.clock = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	return e
}

func openTodo(cat store.Category, pn, notes string) store.TodoEntry {
	return store.TodoEntry{
		ID:         uuid.New(),
		Category:   cat,
		PartNumber: pn,
		Notes:      notes,
		CreatedAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func loggedJob(cat store.Category, pn, notes string, createdAt time.Time) store.JobEntry {
	return store.JobEntry{
		ID:         uuid.New(),
		Category:   cat,
		Date:       createdAt.Format("2006-01-02"),
		PartNumber: pn,
		Notes:      notes,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestOnJobSaved_CompletesMatchingTodos(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)
	ctx := context.Background()

	matching := openTodo(store.CategoryCLS, "98-7654-321", "replace gasket")
	unrelated := openTodo(store.CategoryCLS, "", "tighten wheel bolts")
	fs.todos[matching.ID] = matching
	fs.todos[unrelated.ID] = unrelated

	job := loggedJob(store.CategoryCLS, "98-7654-321", "replace gasket", time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))
	fs.jobs[job.ID] = job

	hits, err := engine.OnJobSaved(ctx, &job)
	if err != nil {
		t.Fatalf("OnJobSaved failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != matching.ID {
		t.Fatalf("expected one hit on %s, got %v", matching.ID, hits)
	}

	got := fs.todos[matching.ID]
	if !got.Done {
		t.Error("matched to-do should be done")
	}
	if got.DoneAt == nil {
		t.Error("DoneAt should be set")
	}
	if got.MatchedJobID == nil || *got.MatchedJobID != job.ID {
		t.Errorf("MatchedJobID = %v, want %s", got.MatchedJobID, job.ID)
	}

	savedJob := fs.jobs[job.ID]
	if !savedJob.TodoMatched {
		t.Error("job should be flagged as matching a requirement")
	}
	if len(savedJob.MatchedTodoIDs) != 1 || savedJob.MatchedTodoIDs[0] != matching.ID {
		t.Errorf("MatchedTodoIDs = %v, want [%s]", savedJob.MatchedTodoIDs, matching.ID)
	}

	if other := fs.todos[unrelated.ID]; other.Done {
		t.Error("unrelated to-do must stay open")
	}
}

func TestOnJobSaved_NoMatchIsNoOp(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)

	todo := openTodo(store.CategoryCLS, "", "tighten wheel bolts")
	fs.todos[todo.ID] = todo
	job := loggedJob(store.CategoryCLS, "", "replace gasket", time.Now())

	hits, err := engine.OnJobSaved(context.Background(), &job)
	if err != nil {
		t.Fatalf("OnJobSaved failed: %v", err)
	}
	if hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
	if fs.jobPuts != 0 || fs.todoPuts != 0 {
		t.Errorf("no-op should not write, got %d job puts and %d todo puts", fs.jobPuts, fs.todoPuts)
	}
}

func TestOnJobSaved_SkipsDoneTodos(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)

	done := openTodo(store.CategoryCLS, "", "replace gasket")
	done.Done = true
	fs.todos[done.ID] = done
	job := loggedJob(store.CategoryCLS, "", "replace gasket", time.Now())

	hits, err := engine.OnJobSaved(context.Background(), &job)
	if err != nil {
		t.Fatalf("OnJobSaved failed: %v", err)
	}
	if hits != nil {
		t.Errorf("done to-dos are closed-world, got hits %v", hits)
	}
}

func TestOnJobSaved_Idempotent(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)
	ctx := context.Background()

	todo := openTodo(store.CategoryCLS, "", "replace gasket")
	fs.todos[todo.ID] = todo
	job := loggedJob(store.CategoryCLS, "", "replace gasket", time.Now())
	fs.jobs[job.ID] = job

	if _, err := engine.OnJobSaved(ctx, &job); err != nil {
		t.Fatalf("first OnJobSaved failed: %v", err)
	}
	firstTodo := fs.todos[todo.ID]
	firstJob := fs.jobs[job.ID]

	hits, err := engine.OnJobSaved(ctx, &job)
	if err != nil {
		t.Fatalf("second OnJobSaved failed: %v", err)
	}
	if hits != nil {
		t.Errorf("second call should find nothing, got %v", hits)
	}

	if got := fs.todos[todo.ID]; got != firstTodo {
		t.Errorf("to-do changed on repeat call: %+v vs %+v", got, firstTodo)
	}
	got := fs.jobs[job.ID]
	if got.TodoMatched != firstJob.TodoMatched || len(got.MatchedTodoIDs) != len(firstJob.MatchedTodoIDs) {
		t.Errorf("job changed on repeat call: %+v vs %+v", got, firstJob)
	}
}

func TestOnTodoSaved_PrefersNewestJob(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)
	ctx := context.Background()

	older := loggedJob(store.CategoryINT, "", "inspect hydraulic line for leaks", time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC))
	newer := loggedJob(store.CategoryINT, "", "inspect hydraulic line for leaks", time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC))
	fs.jobs[older.ID] = older
	fs.jobs[newer.ID] = newer

	todo := openTodo(store.CategoryINT, "", "inspect hydraulic line for leaks")
	fs.todos[todo.ID] = todo

	job, err := engine.OnTodoSaved(ctx, &todo)
	if err != nil {
		t.Fatalf("OnTodoSaved failed: %v", err)
	}
	if job == nil || job.ID != newer.ID {
		t.Fatalf("expected newest job %s, got %v", newer.ID, job)
	}

	saved := fs.todos[todo.ID]
	if !saved.Done || saved.MatchedJobID == nil || *saved.MatchedJobID != newer.ID {
		t.Errorf("to-do not completed against newest job: %+v", saved)
	}

	savedNewer := fs.jobs[newer.ID]
	if !savedNewer.TodoMatched {
		t.Error("satisfying job should be flagged")
	}
	if savedOlder := fs.jobs[older.ID]; savedOlder.TodoMatched {
		t.Error("older job must not be flagged")
	}
}

func TestOnTodoSaved_DoneTodoIsNoOp(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)

	job := loggedJob(store.CategoryCLS, "", "replace gasket", time.Now())
	fs.jobs[job.ID] = job

	todo := openTodo(store.CategoryCLS, "", "replace gasket")
	todo.Done = true

	got, err := engine.OnTodoSaved(context.Background(), &todo)
	if err != nil {
		t.Fatalf("OnTodoSaved failed: %v", err)
	}
	if got != nil {
		t.Errorf("done to-do should not rematch, got job %v", got.ID)
	}
}

func TestOnTodoSaved_NoMatchLeavesOpen(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)

	job := loggedJob(store.CategoryCLS, "", "replace gasket", time.Now())
	fs.jobs[job.ID] = job

	todo := openTodo(store.CategoryINT, "", "replace gasket")
	fs.todos[todo.ID] = todo

	got, err := engine.OnTodoSaved(context.Background(), &todo)
	if err != nil {
		t.Fatalf("OnTodoSaved failed: %v", err)
	}
	if got != nil {
		t.Errorf("category mismatch should not match, got %v", got.ID)
	}
	if fs.todos[todo.ID].Done {
		t.Error("to-do must stay open")
	}
}

func TestRecheckAll_CompletesDriftedState(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)
	ctx := context.Background()

	// A job and a matching to-do whose flags were never set, as after an
	// import or a restore.
	job := loggedJob(store.CategoryCLS, "98-7654-321", "replace gasket", time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
	fs.jobs[job.ID] = job
	todo := openTodo(store.CategoryCLS, "98-7654-321", "replace gasket")
	fs.todos[todo.ID] = todo

	report, err := engine.RecheckAll(ctx)
	if err != nil {
		t.Fatalf("RecheckAll failed: %v", err)
	}
	if report.TodosCompleted != 1 {
		t.Errorf("TodosCompleted = %d, want 1", report.TodosCompleted)
	}
	if report.JobsFlagged != 1 {
		t.Errorf("JobsFlagged = %d, want 1", report.JobsFlagged)
	}
	if report.Passes < 1 {
		t.Errorf("Passes = %d, want at least 1", report.Passes)
	}

	if !fs.todos[todo.ID].Done {
		t.Error("open to-do with a matching job should be completed")
	}
	if !fs.jobs[job.ID].TodoMatched {
		t.Error("job should be flagged")
	}
}

func TestRecheckAll_NeverReopensDone(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)

	// Done to-do whose matching job was deleted: no job matches it now.
	doneAt := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	orphanID := uuid.New()
	todo := openTodo(store.CategoryCLS, "", "replace gasket")
	todo.Done = true
	todo.DoneAt = &doneAt
	todo.MatchedJobID = &orphanID
	fs.todos[todo.ID] = todo

	report, err := engine.RecheckAll(context.Background())
	if err != nil {
		t.Fatalf("RecheckAll failed: %v", err)
	}
	if report.TodosCompleted != 0 {
		t.Errorf("TodosCompleted = %d, want 0", report.TodosCompleted)
	}

	got := fs.todos[todo.ID]
	if !got.Done {
		t.Error("recheck must never reopen a done to-do")
	}
	if got.DoneAt == nil || !got.DoneAt.Equal(doneAt) {
		t.Error("DoneAt must be preserved")
	}
}

func TestRecheckAll_DoesNotClearJobFlag(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)

	// Flagged job whose matched to-do was deleted.
	job := loggedJob(store.CategoryCLS, "", "replace gasket", time.Now())
	job.TodoMatched = true
	job.MatchedTodoIDs = []uuid.UUID{uuid.New()}
	fs.jobs[job.ID] = job

	if _, err := engine.RecheckAll(context.Background()); err != nil {
		t.Fatalf("RecheckAll failed: %v", err)
	}

	got := fs.jobs[job.ID]
	if !got.TodoMatched {
		t.Error("recheck must not clear TodoMatched")
	}
	if len(got.MatchedTodoIDs) != 1 {
		t.Error("recheck must not shrink MatchedTodoIDs")
	}
}

func TestRecheckAll_RepairsLegacyCategories(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)

	job := loggedJob("", "", "replace gasket", time.Now())
	fs.jobs[job.ID] = job
	todo := openTodo("BOGUS", "", "replace gasket")
	fs.todos[todo.ID] = todo

	report, err := engine.RecheckAll(context.Background())
	if err != nil {
		t.Fatalf("RecheckAll failed: %v", err)
	}

	if got := fs.jobs[job.ID].Category; got != store.DefaultCategory() {
		t.Errorf("job category = %q, want default", got)
	}
	if got := fs.todos[todo.ID].Category; got != store.DefaultCategory() {
		t.Errorf("to-do category = %q, want default", got)
	}
	// Once both sit in the default category, the notes line them up.
	if report.TodosCompleted != 1 {
		t.Errorf("TodosCompleted = %d, want 1 after category repair", report.TodosCompleted)
	}
}

func TestRecheckAll_Idempotent(t *testing.T) {
	fs := newFakeStore()
	engine := newTestEngine(fs)
	ctx := context.Background()

	job := loggedJob(store.CategoryCLS, "", "replace gasket", time.Now())
	fs.jobs[job.ID] = job
	todo := openTodo(store.CategoryCLS, "", "replace gasket")
	fs.todos[todo.ID] = todo

	if _, err := engine.RecheckAll(ctx); err != nil {
		t.Fatalf("first RecheckAll failed: %v", err)
	}
	report, err := engine.RecheckAll(ctx)
	if err != nil {
		t.Fatalf("second RecheckAll failed: %v", err)
	}
	if report.TodosCompleted != 0 || report.JobsFlagged != 0 {
		t.Errorf("second recheck should add nothing, got %+v", report)
	}
}
