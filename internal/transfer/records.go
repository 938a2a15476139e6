package transfer

import (
	"time"

	"github.com/google/uuid"

	"worklog/internal/store"
)

// jobRecord is the wire form of a job entry.
type jobRecord struct {
	ID             uuid.UUID   `json:"id"`
	Category       string      `json:"category"`
	Date           string      `json:"date"`
	PartNumber     string      `json:"partNumber,omitempty"`
	WorkOrder      string      `json:"workOrder,omitempty"`
	TaskCode       string      `json:"taskCode,omitempty"`
	Trainer        string      `json:"trainer,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	TodoMatched    bool        `json:"todoMatched"`
	MatchedTodoIDs []uuid.UUID `json:"matchedTodoIds,omitempty"`
}

// todoRecord is the wire form of a to-do entry.
type todoRecord struct {
	ID           uuid.UUID  `json:"id"`
	Category     string     `json:"category"`
	PartNumber   string     `json:"partNumber,omitempty"`
	WorkOrder    string     `json:"workOrder,omitempty"`
	TaskCode     string     `json:"taskCode,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Done         bool       `json:"done"`
	DoneAt       *time.Time `json:"doneAt,omitempty"`
	MatchedJobID *uuid.UUID `json:"matchedJobId,omitempty"`
}

func jobToRecord(j store.JobEntry) jobRecord {
	return jobRecord{
		ID:             j.ID,
		Category:       string(j.Category),
		Date:           j.Date,
		PartNumber:     j.PartNumber,
		WorkOrder:      j.WorkOrder,
		TaskCode:       j.TaskCode,
		Trainer:        j.Trainer,
		Notes:          j.Notes,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
		TodoMatched:    j.TodoMatched,
		MatchedTodoIDs: j.MatchedTodoIDs,
	}
}

func recordToJob(r jobRecord) store.JobEntry {
	return store.JobEntry{
		ID:             r.ID,
		Category:       store.Category(r.Category),
		Date:           r.Date,
		PartNumber:     r.PartNumber,
		WorkOrder:      r.WorkOrder,
		TaskCode:       r.TaskCode,
		Trainer:        r.Trainer,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		TodoMatched:    r.TodoMatched,
		MatchedTodoIDs: r.MatchedTodoIDs,
	}
}

func todoToRecord(t store.TodoEntry) todoRecord {
	return todoRecord{
		ID:           t.ID,
		Category:     string(t.Category),
		PartNumber:   t.PartNumber,
		WorkOrder:    t.WorkOrder,
		TaskCode:     t.TaskCode,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		Done:         t.Done,
		DoneAt:       t.DoneAt,
		MatchedJobID: t.MatchedJobID,
	}
}

func recordToTodo(r todoRecord) store.TodoEntry {
	return store.TodoEntry{
		ID:           r.ID,
		Category:     store.Category(r.Category),
		PartNumber:   r.PartNumber,
		WorkOrder:    r.WorkOrder,
		TaskCode:     r.TaskCode,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		Done:         r.Done,
		DoneAt:       r.DoneAt,
		MatchedJobID: r.MatchedJobID,
	}
}
