package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"worklog/internal/store"
)

// GetAllTodos returns every to-do row ordered by creation time.
func (s *Store) GetAllTodos(ctx context.Context) ([]store.TodoEntry, error) {
	query := `
		SELECT id, category, part_number, work_order, task_code, notes,
		       created_at, done, done_at, matched_job_id
		FROM todos
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []store.TodoEntry
	for rows.Next() {
		var todo store.TodoEntry
		var doneAt sql.NullTime
		var matchedJobID uuid.NullUUID

		err := rows.Scan(
			&todo.ID,
			&todo.Category,
			&todo.PartNumber,
			&todo.WorkOrder,
			&todo.TaskCode,
			&todo.Notes,
			&todo.CreatedAt,
			&todo.Done,
			&doneAt,
			&matchedJobID,
		)
		if err != nil {
			return nil, err
		}

		if doneAt.Valid {
			t := doneAt.Time
			todo.DoneAt = &t
		}
		if matchedJobID.Valid {
			id := matchedJobID.UUID
			todo.MatchedJobID = &id
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// PutTodo upserts a to-do row by id.
func (s *Store) PutTodo(ctx context.Context, todo *store.TodoEntry) error {
	query := `
		INSERT INTO todos (id, category, part_number, work_order, task_code, notes,
		                   created_at, done, done_at, matched_job_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			part_number = EXCLUDED.part_number,
			work_order = EXCLUDED.work_order,
			task_code = EXCLUDED.task_code,
			notes = EXCLUDED.notes,
			done = EXCLUDED.done,
			done_at = EXCLUDED.done_at,
			matched_job_id = EXCLUDED.matched_job_id
	`

	var doneAt sql.NullTime
	if todo.DoneAt != nil {
		doneAt = sql.NullTime{Time: *todo.DoneAt, Valid: true}
	}
	var matchedJobID uuid.NullUUID
	if todo.MatchedJobID != nil {
		matchedJobID = uuid.NullUUID{UUID: *todo.MatchedJobID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		todo.ID,
		todo.Category,
		todo.PartNumber,
		todo.WorkOrder,
		todo.TaskCode,
		todo.Notes,
		todo.CreatedAt,
		todo.Done,
		doneAt,
		matchedJobID,
	)
	return err
}

// DeleteTodo removes a to-do row.
func (s *Store) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = $1", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
