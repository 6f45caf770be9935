// Package categorizer maps extracted slots plus contextual signals to one
// category from the fixed taxonomy. Rules are evaluated in a fixed priority
// order and the first applicable rule wins — rules are never scored
// independently and combined, so the outcome is deterministic and each rule
// is testable on its own.
package categorizer

import (
	"strings"

	"momo-etl/internal/logging"
	"momo-etl/internal/models"
)

// Signal is the evidence available to the rule list for one message:
// normalized slots, template identity, and the message text for keyword
// checks. Category membership derives solely from this value, never from
// hidden state.
type Signal struct {
	// TemplateName and TemplateCategory identify the matched template and
	// the category it encodes, models.CategoryOther meaning "no unambiguous
	// category hint".
	TemplateName     string
	TemplateCategory models.Category

	Direction models.TransactionDirection

	// Text is the lowercased raw message, for keyword rules.
	Text string

	MomoCode      *string
	BusinessName  *string
	SenderName    *string
	RecipientName *string
}

// HasCounterparty reports whether any party other than the wallet owner is
// named in the message.
func (s Signal) HasCounterparty() bool {
	return s.SenderName != nil || s.RecipientName != nil || s.BusinessName != nil
}

// Rule is one categorization rule. Apply returns the category, a confidence
// delta folded into the final score, and whether the rule's precondition
// held.
type Rule interface {
	Name() string
	Apply(sig Signal) (models.Category, float64, bool)
}

// Categorizer evaluates an ordered rule list.
type Categorizer struct {
	rules  []Rule
	logger logging.Logger
}

// New creates a Categorizer with the given rules in evaluation order.
func New(rules []Rule, logger logging.Logger) *Categorizer {
	return &Categorizer{rules: rules, logger: logger}
}

// NewDefault creates a Categorizer with the canonical rule order:
// template identity, counterparty signals, direction keywords, purchase
// keyword overrides, legacy fallback.
func NewDefault(logger logging.Logger) *Categorizer {
	return New([]Rule{
		&TemplateIdentityRule{},
		&CounterpartyRule{},
		&DirectionKeywordRule{},
		&KeywordOverrideRule{},
		&LegacyFallbackRule{},
	}, logger)
}

// Categorize runs the rule list and returns the winning category with its
// confidence delta. The legacy fallback rule always applies, so every
// message gets exactly one category.
func (c *Categorizer) Categorize(sig Signal) (models.Category, float64) {
	for _, rule := range c.rules {
		category, delta, ok := rule.Apply(sig)
		if !ok {
			continue
		}
		c.logger.Debug("message categorized",
			logging.F("rule", rule.Name()),
			logging.F(logging.FieldTemplate, sig.TemplateName),
			logging.F(logging.FieldCategory, string(category)),
		)
		return category, delta
	}
	return models.CategoryOther, fallbackDelta
}

// NewSignal builds a Signal from the lowercased text and slot values.
func NewSignal(templateName string, templateCategory models.Category, direction models.TransactionDirection, text string, momoCode, businessName, senderName, recipientName *string) Signal {
	return Signal{
		TemplateName:     templateName,
		TemplateCategory: templateCategory,
		Direction:        direction,
		Text:             strings.ToLower(text),
		MomoCode:         momoCode,
		BusinessName:     businessName,
		SenderName:       senderName,
		RecipientName:    recipientName,
	}
}
