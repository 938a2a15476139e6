package match

import "worklog/internal/store"

// NotesThreshold is the minimum notes similarity for a match.
// Fixed policy, inclusive boundary.
const NotesThreshold = 0.96

// Predicate is the canonical matching rule. It carries no state; the
// type exists so the reconciliation engine can depend on an interface
// and the rule can change without touching orchestration.
type Predicate struct{}

// Matches reports whether todo and job denote the same task.
//
// Rule:
//   - categories must agree
//   - if the job has a part number: the to-do must carry the exact same
//     normalized part number AND notes similarity must reach the threshold
//   - if the job has no part number: notes similarity alone decides
//
// A record with no part number and no notes never matches anything.
func (Predicate) Matches(todo *store.TodoEntry, job *store.JobEntry) bool {
	if NormalizeCategory(todo.Category) != NormalizeCategory(job.Category) {
		return false
	}

	jobPN := NormalizePartNumber(job.PartNumber)
	todoPN := NormalizePartNumber(todo.PartNumber)
	jobNotes := NormalizeNotes(job.Notes)
	todoNotes := NormalizeNotes(todo.Notes)

	if jobPN != "" {
		if jobPN != todoPN {
			return false
		}
		if jobNotes == "" || todoNotes == "" {
			return false
		}
		return Similarity(todoNotes, jobNotes) >= NotesThreshold
	}

	if jobNotes == "" || todoNotes == "" {
		return false
	}
	return Similarity(todoNotes, jobNotes) >= NotesThreshold
}
