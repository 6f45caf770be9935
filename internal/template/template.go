// Package template implements the ordered library of message-shape matchers.
// Each template binds one known provider phrasing to a set of named, typed
// capture slots. Templates are static configuration: loaded once, validated
// eagerly, immutable for the run, and consulted in fixed priority order so
// specific phrasings are tried before generic fallbacks.
package template

import (
	"regexp"
	"strings"

	"momo-etl/internal/models"
)

// SlotType describes how a captured value should be normalized downstream.
type SlotType string

const (
	SlotMoney    SlotType = "money"
	SlotPhone    SlotType = "phone"
	SlotName     SlotType = "name"
	SlotInteger  SlotType = "integer"
	SlotFreeText SlotType = "freetext"
)

// Slot is a named, typed capture. Patterns are tried in order; the first
// pattern is the direct capture, any later pattern is a secondary heuristic
// whose use carries a confidence penalty for required slots.
type Slot struct {
	Name     string
	Type     SlotType
	patterns []*regexp.Regexp
}

// Template is one compiled message-shape matcher.
type Template struct {
	Name      string
	Weight    float64
	Category  models.Category
	Direction models.TransactionDirection
	TxType    models.TransactionType

	markers  [][]string // AND of OR-groups, lowercased
	excludes []string   // message must not contain any of these
	slots    []Slot
	required map[string]bool
}

// Matches reports whether the template's predicate holds for the text.
// Matching is pure substring presence, case-insensitive, so the candidate
// sequence for a given text is always the same.
func (t *Template) Matches(text string) bool {
	lower := strings.ToLower(text)
	for _, group := range t.markers {
		found := false
		for _, alt := range group {
			if strings.Contains(lower, alt) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, excl := range t.excludes {
		if strings.Contains(lower, excl) {
			return false
		}
	}
	return true
}

// Required reports whether the named slot is required by this template.
func (t *Template) Required(name string) bool {
	return t.required[name]
}

// ExtractionResult holds the raw captures one template pulled out of one
// message. It is ephemeral: created per message, consumed by the
// normalizer, then discarded.
type ExtractionResult struct {
	Template *Template

	// Values maps slot name to the raw captured substring.
	Values map[string]string

	// Types maps slot name to its declared type.
	Types map[string]SlotType

	// MissingRequired lists required slots that produced no capture.
	MissingRequired []string

	// HeuristicRequired counts required slots recovered through a secondary
	// pattern rather than the direct capture.
	HeuristicRequired int

	// OptionalPresent and OptionalTotal describe optional-slot completeness
	// for the confidence scorer.
	OptionalPresent int
	OptionalTotal   int
}

// Complete reports whether every required slot was captured.
func (r *ExtractionResult) Complete() bool {
	return len(r.MissingRequired) == 0
}

// Get returns the raw capture for a slot.
func (r *ExtractionResult) Get(name string) (string, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// Extract applies every slot pattern of the template to the text and
// records which required and optional slots were present. It never fails:
// incompleteness is reported in the result, not as an error, because a
// partial match is an expected outcome.
func (t *Template) Extract(text string) *ExtractionResult {
	result := &ExtractionResult{
		Template: t,
		Values:   make(map[string]string, len(t.slots)),
		Types:    make(map[string]SlotType, len(t.slots)),
	}

	for _, slot := range t.slots {
		captured := false
		for i, pattern := range slot.patterns {
			m := pattern.FindStringSubmatch(text)
			if m == nil || len(m) < 2 {
				continue
			}
			result.Values[slot.Name] = m[1]
			result.Types[slot.Name] = slot.Type
			if i > 0 && t.required[slot.Name] {
				result.HeuristicRequired++
			}
			captured = true
			break
		}

		if t.required[slot.Name] {
			if !captured {
				result.MissingRequired = append(result.MissingRequired, slot.Name)
			}
		} else {
			result.OptionalTotal++
			if captured {
				result.OptionalPresent++
			}
		}
	}

	return result
}
