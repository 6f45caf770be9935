// Package engine orchestrates the parsing pipeline: template matching,
// field extraction, normalization, categorization, confidence scoring,
// deduplication, and failure routing. Processing one message is synchronous
// and total — it always terminates in exactly one of ACCEPTED, PARTIAL,
// REJECTED, or DUPLICATE.
package engine

import (
	"fmt"
	"strings"
	"time"

	"momo-etl/internal/categorizer"
	"momo-etl/internal/dedupe"
	"momo-etl/internal/logging"
	"momo-etl/internal/models"
	"momo-etl/internal/template"
)

// Outcome is the terminal result for one message. Exactly one of
// Transaction or Failure is set, depending on Status.
type Outcome struct {
	Status      models.ParseStatus
	Transaction *models.ParsedTransaction
	Failure     *models.FailureRecord
}

// Dispatcher runs the per-message state machine
// RECEIVED → MATCHING → EXTRACTED → NORMALIZED → CATEGORIZED → terminal.
type Dispatcher struct {
	library     *template.Library
	categorizer *categorizer.Categorizer
	scorer      *categorizer.Scorer
	registry    *dedupe.Registry
	countryCode string
	currency    string
	logger      logging.Logger
}

// NewDispatcher wires the pipeline stages together. The library and
// registry are shared across workers; everything else is stateless.
func NewDispatcher(lib *template.Library, cat *categorizer.Categorizer, scorer *categorizer.Scorer, registry *dedupe.Registry, countryCode, currency string, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		library:     lib,
		categorizer: cat,
		scorer:      scorer,
		registry:    registry,
		countryCode: countryCode,
		currency:    currency,
		logger:      logger,
	}
}

// Process parses one raw message to its terminal outcome. A malformed
// message never aborts the batch: every failure mode is captured in the
// returned Outcome, including an unexpected panic from a pattern edge case.
func (d *Dispatcher) Process(msg models.RawMessage) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("parser panic isolated",
				logging.F(logging.FieldMessageID, msg.SourceID),
				logging.F("panic", fmt.Sprint(r)),
			)
			outcome = d.reject(msg, models.ReasonNoTemplateMatch, fmt.Sprintf("internal parser error: %v", r))
		}
	}()

	// MATCHING
	candidates := d.library.Candidates(msg.Body)
	if len(candidates) == 0 {
		return d.reject(msg, models.ReasonNoTemplateMatch, "")
	}

	// EXTRACTED: first candidate with all required slots present wins.
	chosen, notes, ok := chooseCandidate(candidates)
	if !ok {
		first := candidates[0]
		detail := fmt.Sprintf("template %s missing required slots: %s",
			first.Template.Name, strings.Join(first.Result.MissingRequired, ", "))
		return d.reject(msg, models.ReasonMissingRequiredField, detail)
	}

	// NORMALIZED
	tx, err := d.normalizeCandidate(msg, chosen)
	if err != nil {
		return d.reject(msg, models.ReasonInvalidAmount, err.Error())
	}
	tx.Notes = notes

	// CATEGORIZED
	sig := categorizer.NewSignal(
		chosen.Template.Name, chosen.Template.Category, tx.Direction, msg.Body,
		tx.MomoCode, tx.BusinessName, tx.SenderName, tx.RecipientName,
	)
	category, delta := d.categorizer.Categorize(sig)
	tx.Category = category
	tx.Confidence = d.scorer.Score(chosen.Template.Weight, chosen.Result, delta)
	tx.Status = d.scorer.StatusFor(tx.Confidence)

	// Dedup guard: at most one ACCEPTED/PARTIAL record per fingerprint per
	// run. Rejected messages do not register, so a repeated junk message is
	// reported as REJECTED both times, not DUPLICATE.
	if !d.registry.Register(tx.Fingerprint) {
		return Outcome{
			Status: models.StatusDuplicate,
			Failure: &models.FailureRecord{
				RawText:     msg.Body,
				SourceID:    msg.SourceID,
				Reason:      models.ReasonDuplicate,
				Detail:      "fingerprint " + tx.Fingerprint,
				ProcessedAt: time.Now().UTC(),
			},
		}
	}

	d.logger.Debug("message parsed",
		logging.F(logging.FieldMessageID, msg.SourceID),
		logging.F(logging.FieldTemplate, chosen.Template.Name),
		logging.F(logging.FieldCategory, string(tx.Category)),
		logging.F(logging.FieldStatus, string(tx.Status)),
		logging.F(logging.FieldConfidence, tx.Confidence),
	)

	return Outcome{Status: tx.Status, Transaction: tx}
}

// chooseCandidate picks the first complete extraction in priority order.
// If a later complete candidate has the same priority weight but captured
// different values, the match is flagged AMBIGUOUS_MATCH on the result —
// it is informational, never a rejection by itself.
func chooseCandidate(candidates []template.Candidate) (template.Candidate, []models.FailureReason, bool) {
	var chosen template.Candidate
	found := false
	var notes []models.FailureReason

	for _, cand := range candidates {
		if !cand.Result.Complete() {
			continue
		}
		if !found {
			chosen = cand
			found = true
			continue
		}
		if cand.Template.Weight == chosen.Template.Weight && !sameValues(cand.Result.Values, chosen.Result.Values) {
			notes = append(notes, models.ReasonAmbiguousMatch)
			break
		}
	}

	return chosen, notes, found
}

func sameValues(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func (d *Dispatcher) reject(msg models.RawMessage, reason models.FailureReason, detail string) Outcome {
	return Outcome{
		Status: models.StatusRejected,
		Failure: &models.FailureRecord{
			RawText:     msg.Body,
			SourceID:    msg.SourceID,
			Reason:      reason,
			Detail:      detail,
			ProcessedAt: time.Now().UTC(),
		},
	}
}
