package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"momo-etl/internal/logging"
	"momo-etl/internal/models"
)

// Summary is the JSON run report written next to the CSV so dashboards can
// pick up per-run totals without re-reading the transaction data.
type Summary struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Attempted  int            `json:"attempted"`
	Accepted   int            `json:"accepted"`
	Partial    int            `json:"partial"`
	Rejected   int            `json:"rejected"`
	Duplicate  int            `json:"duplicate"`
	ByCategory map[string]int `json:"by_category,omitempty"`
	ByReason   map[string]int `json:"by_reason,omitempty"`
}

// NewSummary builds a Summary from run statistics.
func NewSummary(stats *models.RunStats) Summary {
	s := Summary{
		RunID:      stats.RunID,
		StartedAt:  stats.StartedAt,
		DurationMS: stats.Duration.Milliseconds(),
		Attempted:  stats.Attempted,
		Accepted:   stats.Accepted,
		Partial:    stats.Partial,
		Rejected:   stats.Rejected,
		Duplicate:  stats.Duplicate,
	}
	if len(stats.ByCategory) > 0 {
		s.ByCategory = make(map[string]int, len(stats.ByCategory))
		for cat, n := range stats.ByCategory {
			s.ByCategory[string(cat)] = n
		}
	}
	if len(stats.ByReason) > 0 {
		s.ByReason = make(map[string]int, len(stats.ByReason))
		for reason, n := range stats.ByReason {
			s.ByReason[string(reason)] = n
		}
	}
	return s
}

// WriteSummaryTo serializes the summary as indented JSON.
func WriteSummaryTo(w io.Writer, stats *models.RunStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewSummary(stats))
}

// WriteSummary writes the run summary JSON file.
func WriteSummary(stats *models.RunStats, path string, logger logging.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating summary file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("failed to close summary file")
		}
	}()

	if err := WriteSummaryTo(file, stats); err != nil {
		return fmt.Errorf("error writing summary: %w", err)
	}

	logger.Info("summary written",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldRunID, stats.RunID))
	return nil
}
