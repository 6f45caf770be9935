package categorizer

import (
	"strings"

	"momo-etl/internal/models"
)

// Confidence deltas per rule tier. Later tiers rest on weaker evidence.
const (
	identityDelta = 0.05
	signalDelta   = 0.02
	keywordDelta  = 0.0
	fallbackDelta = -0.05
)

// TemplateIdentityRule uses the category the matched template encodes.
// Templates whose hint is the catch-all OTHER are treated as carrying no
// unambiguous identity and fall through to later rules.
type TemplateIdentityRule struct{}

func (r *TemplateIdentityRule) Name() string { return "template-identity" }

func (r *TemplateIdentityRule) Apply(sig Signal) (models.Category, float64, bool) {
	if sig.TemplateCategory == "" || sig.TemplateCategory == models.CategoryOther {
		return "", 0, false
	}
	return sig.TemplateCategory, identityDelta, true
}

// CounterpartyRule inspects who the other side of the transaction is: a
// short numeric momo code alongside a personal name means a payment to a
// person; a recognizable business name means a business payment.
type CounterpartyRule struct{}

func (r *CounterpartyRule) Name() string { return "counterparty" }

func (r *CounterpartyRule) Apply(sig Signal) (models.Category, float64, bool) {
	if sig.MomoCode != nil && sig.RecipientName != nil {
		return models.CategoryPaymentPersonal, signalDelta, true
	}
	if sig.BusinessName != nil {
		return models.CategoryPaymentBusiness, signalDelta, true
	}
	return "", 0, false
}

// DirectionKeywordRule classifies transfers from direction plus phrasing.
type DirectionKeywordRule struct{}

func (r *DirectionKeywordRule) Name() string { return "direction-keyword" }

func (r *DirectionKeywordRule) Apply(sig Signal) (models.Category, float64, bool) {
	if strings.Contains(sig.Text, "received") && strings.Contains(sig.Text, "from") {
		return models.CategoryTransferIncoming, signalDelta, true
	}
	outgoing := strings.Contains(sig.Text, "transferred to") ||
		(strings.Contains(sig.Text, "payment") && strings.Contains(sig.Text, " to "))
	if outgoing && sig.RecipientName != nil {
		return models.CategoryTransferOutgoing, signalDelta, true
	}
	return "", 0, false
}

// KeywordOverrideRule catches airtime and data purchases by keyword when no
// stronger signal classified the message first.
type KeywordOverrideRule struct{}

func (r *KeywordOverrideRule) Name() string { return "keyword-override" }

func (r *KeywordOverrideRule) Apply(sig Signal) (models.Category, float64, bool) {
	if strings.Contains(sig.Text, "airtime") {
		return models.CategoryAirtime, keywordDelta, true
	}
	if strings.Contains(sig.Text, "bundle") || strings.Contains(sig.Text, "data") {
		return models.CategoryDataBundle, keywordDelta, true
	}
	return "", 0, false
}

// LegacyFallbackRule infers a coarse legacy category from direction and
// counterparty presence. It always applies, so the rule list is total.
type LegacyFallbackRule struct{}

func (r *LegacyFallbackRule) Name() string { return "legacy-fallback" }

func (r *LegacyFallbackRule) Apply(sig Signal) (models.Category, float64, bool) {
	switch sig.Direction {
	case models.DirectionCredit:
		if sig.HasCounterparty() {
			return models.CategoryTransfer, fallbackDelta, true
		}
		return models.CategoryDeposit, fallbackDelta, true
	case models.DirectionDebit:
		if sig.HasCounterparty() {
			return models.CategoryPayment, fallbackDelta, true
		}
		return models.CategoryWithdrawal, fallbackDelta, true
	}
	return models.CategoryOther, fallbackDelta, true
}
