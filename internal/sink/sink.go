// Package sink collects unparseable and rejected messages for later
// inspection. The sink is the only component that receives REJECTED and
// DUPLICATE outcomes; accepted and partial records never reach it.
package sink

import (
	"encoding/json"
	"io"
	"sync"

	"momo-etl/internal/models"
)

// Sink is an append-only destination for failure records. Record never
// fails on a well-formed FailureRecord.
type Sink interface {
	Record(failure models.FailureRecord)
}

// Memory buffers failure records in order of arrival. Safe for concurrent
// use by pipeline workers.
type Memory struct {
	mu       sync.Mutex
	failures []models.FailureRecord
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Record appends one failure.
func (m *Memory) Record(failure models.FailureRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, failure)
}

// Failures returns a copy of everything recorded so far.
func (m *Memory) Failures() []models.FailureRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.FailureRecord, len(m.failures))
	copy(out, m.failures)
	return out
}

// Len returns the number of recorded failures.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.failures)
}

// Writer streams failure records as JSON lines, one object per record,
// suitable for an append-only audit log. Serialization errors are counted
// rather than raised: the sink contract is that Record never fails.
type Writer struct {
	mu      sync.Mutex
	w       io.Writer
	dropped int
}

// NewWriter returns a sink writing JSONL to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Record serializes and appends one failure record.
func (s *Writer) Record(failure models.FailureRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := json.Marshal(failure)
	if err != nil {
		s.dropped++
		return
	}
	if _, err := s.w.Write(append(line, '\n')); err != nil {
		s.dropped++
	}
}

// Dropped returns how many records could not be written.
func (s *Writer) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Tee fans a failure record out to multiple sinks.
type Tee []Sink

// Record forwards the failure to every sink.
func (t Tee) Record(failure models.FailureRecord) {
	for _, s := range t {
		s.Record(failure)
	}
}
