package engine

import (
	"momo-etl/internal/dedupe"
	"momo-etl/internal/models"
	"momo-etl/internal/normalize"
	"momo-etl/internal/template"
)

// Well-known slot names shared between the template library and the
// dispatcher. Templates may declare additional slots; the dispatcher only
// maps these onto transaction fields.
const (
	slotAmount         = "amount"
	slotFee            = "fee"
	slotBalance        = "balance"
	slotSenderName     = "sender_name"
	slotSenderPhone    = "sender_phone"
	slotRecipientName  = "recipient_name"
	slotRecipientPhone = "recipient_phone"
	slotMomoCode       = "momo_code"
	slotAgentName      = "agent_name"
	slotAgentNumber    = "agent_number"
	slotBusinessName   = "business_name"
	slotTxID           = "txid"
	slotFinTxID        = "financial_txid"
	slotExtTxID        = "external_txid"
	slotDate           = "date"
)

// normalizeCandidate converts the raw captures of the chosen template into
// a typed ParsedTransaction. Only an invalid principal amount is an error;
// every other slot degrades gracefully to absence.
func (d *Dispatcher) normalizeCandidate(msg models.RawMessage, cand template.Candidate) (*models.ParsedTransaction, error) {
	result := cand.Result
	tmpl := cand.Template

	rawAmount, _ := result.Get(slotAmount)
	amount, err := normalize.Amount(rawAmount)
	if err != nil {
		return nil, err
	}

	tx := &models.ParsedTransaction{
		Amount:      models.NewMoney(amount, d.currency),
		Fee:         models.ZeroMoney(d.currency),
		Direction:   tmpl.Direction,
		Type:        tmpl.TxType,
		Template:    tmpl.Name,
		Fingerprint: dedupe.Fingerprint(msg.Body),
		Date:        msg.Timestamp,
		RawText:     msg.Body,
		SourceID:    msg.SourceID,
	}

	if raw, ok := result.Get(slotFee); ok {
		if fee, err := normalize.NonNegativeAmount(raw); err == nil {
			tx.Fee = models.NewMoney(fee, d.currency)
		}
	}
	if raw, ok := result.Get(slotBalance); ok {
		if balance, err := normalize.NonNegativeAmount(raw); err == nil {
			m := models.NewMoney(balance, d.currency)
			tx.Balance = &m
		}
	}

	tx.SenderName = d.nameField(result, slotSenderName)
	tx.RecipientName = d.nameField(result, slotRecipientName)
	tx.BusinessName = d.nameField(result, slotBusinessName)
	tx.SenderPhone = d.phoneField(result, slotSenderPhone)
	tx.RecipientPhone = d.phoneField(result, slotRecipientPhone)
	tx.AgentMomoNumber = d.phoneField(result, slotAgentNumber)

	if raw, ok := result.Get(slotMomoCode); ok {
		code := normalize.Name(raw)
		if code != "" {
			tx.MomoCode = &code
		}
	}

	// The financial transaction id is the provider's durable reference;
	// fall back to the short TxId, then the external id.
	for _, slot := range []string{slotFinTxID, slotTxID, slotExtTxID} {
		if raw, ok := result.Get(slot); ok {
			ref := normalize.Name(raw)
			if ref != "" {
				tx.Reference = &ref
				break
			}
		}
	}

	// Prefer the timestamp embedded in the message text over the provider
	// envelope timestamp.
	if raw, ok := result.Get(slotDate); ok {
		if t, err := normalize.Timestamp(raw); err == nil {
			tx.Date = t
		}
	}

	return tx, nil
}

func (d *Dispatcher) nameField(result *template.ExtractionResult, slot string) *string {
	raw, ok := result.Get(slot)
	if !ok {
		return nil
	}
	name := normalize.Name(raw)
	if name == "" {
		return nil
	}
	return &name
}

func (d *Dispatcher) phoneField(result *template.ExtractionResult, slot string) *string {
	raw, ok := result.Get(slot)
	if !ok {
		return nil
	}
	phone := normalize.Phone(raw, d.countryCode)
	if phone == "" {
		return nil
	}
	return &phone
}
