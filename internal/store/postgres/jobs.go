package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"worklog/internal/store"
)

// GetAllJobs returns every job row ordered by creation time.
// The matched to-do id set is stored as a JSON array column.
func (s *Store) GetAllJobs(ctx context.Context) ([]store.JobEntry, error) {
	query := `
		SELECT id, category, date, part_number, work_order, task_code, trainer, notes,
		       created_at, updated_at, todo_matched, matched_todo_ids
		FROM jobs
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []store.JobEntry
	for rows.Next() {
		var job store.JobEntry
		var matchedIDs []byte

		err := rows.Scan(
			&job.ID,
			&job.Category,
			&job.Date,
			&job.PartNumber,
			&job.WorkOrder,
			&job.TaskCode,
			&job.Trainer,
			&job.Notes,
			&job.CreatedAt,
			&job.UpdatedAt,
			&job.TodoMatched,
			&matchedIDs,
		)
		if err != nil {
			return nil, err
		}

		if len(matchedIDs) > 0 {
			if err := json.Unmarshal(matchedIDs, &job.MatchedTodoIDs); err != nil {
				return nil, fmt.Errorf("decode matched_todo_ids for job %s: %w", job.ID, err)
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// PutJob upserts a job row by id.
func (s *Store) PutJob(ctx context.Context, job *store.JobEntry) error {
	query := `
		INSERT INTO jobs (id, category, date, part_number, work_order, task_code, trainer, notes,
		                  created_at, updated_at, todo_matched, matched_todo_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			date = EXCLUDED.date,
			part_number = EXCLUDED.part_number,
			work_order = EXCLUDED.work_order,
			task_code = EXCLUDED.task_code,
			trainer = EXCLUDED.trainer,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at,
			todo_matched = EXCLUDED.todo_matched,
			matched_todo_ids = EXCLUDED.matched_todo_ids
	`

	matchedIDs := job.MatchedTodoIDs
	if matchedIDs == nil {
		matchedIDs = []uuid.UUID{}
	}
	idsJSON, err := json.Marshal(matchedIDs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		job.ID,
		job.Category,
		job.Date,
		job.PartNumber,
		job.WorkOrder,
		job.TaskCode,
		job.Trainer,
		job.Notes,
		job.CreatedAt,
		job.UpdatedAt,
		job.TodoMatched,
		idsJSON,
	)
	return err
}

// DeleteJob removes a job row.
func (s *Store) DeleteJob(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = $1", id)
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
