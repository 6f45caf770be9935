package models

import "time"

// RunStats accumulates per-run counters. It is owned by the batch driver and
// updated only from dispatcher return values, never as ambient global state,
// so the engine stays independently testable.
type RunStats struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Attempted int `json:"attempted"`
	Accepted  int `json:"accepted"`
	Partial   int `json:"partial"`
	Rejected  int `json:"rejected"`
	Duplicate int `json:"duplicate"`

	ByCategory map[Category]int      `json:"by_category"`
	ByReason   map[FailureReason]int `json:"by_reason"`
}

// NewRunStats returns an initialized accumulator for one processing run.
func NewRunStats(runID string) *RunStats {
	return &RunStats{
		RunID:      runID,
		StartedAt:  time.Now().UTC(),
		ByCategory: make(map[Category]int),
		ByReason:   make(map[FailureReason]int),
	}
}

// Observe records one terminal outcome.
func (s *RunStats) Observe(status ParseStatus, category Category, reason FailureReason) {
	s.Attempted++
	switch status {
	case StatusAccepted:
		s.Accepted++
		s.ByCategory[category]++
	case StatusPartial:
		s.Partial++
		s.ByCategory[category]++
	case StatusRejected:
		s.Rejected++
		s.ByReason[reason]++
	case StatusDuplicate:
		s.Duplicate++
		s.ByReason[ReasonDuplicate]++
	}
}

// Emitted returns the number of records that reached the output stream.
func (s *RunStats) Emitted() int {
	return s.Accepted + s.Partial
}
