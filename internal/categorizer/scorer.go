package categorizer

import (
	"momo-etl/internal/models"
	"momo-etl/internal/template"
)

// Scorer combines template-match strength and slot completeness into a
// single [0,1] confidence value, shared by the extractor and categorizer
// paths so both report comparable numbers.
type Scorer struct {
	// OptionalBonus is the maximum bonus for full optional-slot coverage.
	OptionalBonus float64

	// HeuristicPenalty is subtracted once per required slot recovered
	// through a secondary pattern instead of a direct capture.
	HeuristicPenalty float64

	// Threshold is the acceptance confidence; scores at or above it yield
	// ACCEPTED, below it (with required slots present) PARTIAL.
	Threshold float64
}

// NewScorer returns a Scorer with the standard tuning.
func NewScorer(threshold float64) *Scorer {
	return &Scorer{
		OptionalBonus:    0.05,
		HeuristicPenalty: 0.1,
		Threshold:        threshold,
	}
}

// Score computes the final confidence for one extraction. The optional
// bonus is proportional to the fraction of optional slots captured, so a
// record with every optional slot populated never scores below an
// otherwise-identical record missing one.
func (s *Scorer) Score(base float64, result *template.ExtractionResult, categoryDelta float64) float64 {
	score := base + categoryDelta

	if result.OptionalTotal > 0 {
		fraction := float64(result.OptionalPresent) / float64(result.OptionalTotal)
		score += s.OptionalBonus * fraction
	}

	score -= s.HeuristicPenalty * float64(result.HeuristicRequired)

	return clamp01(score)
}

// StatusFor maps a confidence score to a parse status for a complete
// extraction. Incomplete extractions never reach here; the dispatcher
// rejects them with MISSING_REQUIRED_FIELD first.
func (s *Scorer) StatusFor(score float64) models.ParseStatus {
	if score >= s.Threshold {
		return models.StatusAccepted
	}
	return models.StatusPartial
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
