// Package metrics defines the instrumentation hooks for the
// reconciliation engine and the importer.
package metrics

import "time"

// Sink defines the interface for recording metrics.
// All methods are fire-and-forget: implementations MUST NOT block or
// propagate errors.
type Sink interface {
	// Reconciliation metrics
	MatchFound(direction string)
	RecheckCompleted(duration time.Duration, newMatches int)

	// Import metrics
	ImportRow(outcome string)
}

// Direction constants for MatchFound.
const (
	DirectionForward = "forward" // job saved, to-dos scanned
	DirectionReverse = "reverse" // to-do saved, jobs scanned
)

// Outcome constants for ImportRow.
const (
	OutcomeAdded   = "added"
	OutcomeSkipped = "skipped"
	OutcomeInvalid = "invalid"
)
