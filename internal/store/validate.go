package store

import (
	"fmt"
	"strings"
)

// ValidationError reports a record that must not be persisted.
// The CLI surfaces it as a plain user message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateJob rejects a job entry that has no identifying field.
// Date and category alone are not enough to persist a record.
func ValidateJob(j *JobEntry) error {
	if blank(j.Date) {
		return &ValidationError{Msg: "job date is required"}
	}
	if blank(j.PartNumber) && blank(j.WorkOrder) && blank(j.TaskCode) &&
		blank(j.Trainer) && blank(j.Notes) {
		return &ValidationError{Msg: "job needs at least one of part number, work order, task code, trainer or notes"}
	}
	return nil
}

// ValidateTodo rejects a to-do entry that has no identifying field.
// An all-empty to-do would otherwise match nothing and clutter the open list.
func ValidateTodo(t *TodoEntry) error {
	if blank(t.PartNumber) && blank(t.WorkOrder) && blank(t.TaskCode) && blank(t.Notes) {
		return &ValidationError{Msg: "to-do needs at least one of part number, work order, task code or notes"}
	}
	return nil
}

// CompositeKey builds the normalized dedupe key used by the importer:
// two to-dos with the same key denote the same requirement.
func CompositeKey(t *TodoEntry) string {
	parts := []string{
		string(t.Category),
		strings.ToUpper(strings.TrimSpace(t.PartNumber)),
		strings.ToUpper(strings.TrimSpace(t.WorkOrder)),
		strings.ToUpper(strings.TrimSpace(t.TaskCode)),
		strings.ToLower(strings.TrimSpace(t.Notes)),
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", parts[0], parts[1], parts[2], parts[3], parts[4])
}
