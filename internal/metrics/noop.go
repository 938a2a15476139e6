package metrics

import "time"

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) MatchFound(direction string)                             {}
func (n *NoopSink) RecheckCompleted(duration time.Duration, newMatches int) {}
func (n *NoopSink) ImportRow(outcome string)                                {}
