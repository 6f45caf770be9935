package models

import "time"

// TransactionDirection tells whether money moved into or out of the wallet.
type TransactionDirection string

const (
	DirectionCredit  TransactionDirection = "credit"
	DirectionDebit   TransactionDirection = "debit"
	DirectionUnknown TransactionDirection = "unknown"
)

// TransactionType is the provider-level operation kind, coarser than the
// business category.
type TransactionType string

const (
	TypeReceive    TransactionType = "RECEIVE"
	TypeTransfer   TransactionType = "TRANSFER"
	TypePayment    TransactionType = "PAYMENT"
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
	TypePurchase   TransactionType = "PURCHASE"
	TypeReversal   TransactionType = "REVERSAL"
	TypeFailed     TransactionType = "FAILED"
	TypeUnknown    TransactionType = "UNKNOWN"
)

// ParsedTransaction is the engine's output record. It is a closed type:
// optional fields are pointers (or zero Money) rather than an open property
// bag, so absence is always explicit. Instances are never mutated after the
// dispatcher returns them; re-runs produce fresh instances compared by
// fingerprint.
type ParsedTransaction struct {
	Amount    Money                `json:"amount"`
	Fee       Money                `json:"fee"`
	Balance   *Money               `json:"balance,omitempty"`
	Direction TransactionDirection `json:"direction"`
	Type      TransactionType      `json:"type"`
	Category  Category             `json:"category"`

	// Confidence is in [0,1]; how completely and unambiguously the message
	// matched its template.
	Confidence float64     `json:"confidence"`
	Status     ParseStatus `json:"status"`

	// Parties. At least one side is usually absent: self-directed
	// transactions (airtime, deposits) have no counterparty at all.
	SenderName     *string `json:"sender_name,omitempty"`
	SenderPhone    *string `json:"sender_phone,omitempty"`
	RecipientName  *string `json:"recipient_name,omitempty"`
	RecipientPhone *string `json:"recipient_phone,omitempty"`

	// Correlates used by the categorizer.
	MomoCode        *string `json:"momo_code,omitempty"`
	AgentMomoNumber *string `json:"agent_momo_number,omitempty"`
	BusinessName    *string `json:"business_name,omitempty"`

	// Reference is the financial transaction id when the message carries
	// one, else the TxId.
	Reference *string `json:"reference,omitempty"`

	// Template is the name of the library template that matched.
	Template string `json:"template"`

	// Notes carries informational annotations such as AMBIGUOUS_MATCH.
	Notes []FailureReason `json:"notes,omitempty"`

	// Fingerprint is the deterministic dedup identifier over the raw text.
	Fingerprint string `json:"fingerprint"`

	// Date is the transaction timestamp, from the message text when present,
	// else the provider timestamp.
	Date time.Time `json:"date"`

	// RawText retains the original message for audit and re-parsing.
	RawText  string `json:"raw_text"`
	SourceID string `json:"source_id,omitempty"`
}

// IsDebit returns true if the transaction moved money out of the wallet.
func (t *ParsedTransaction) IsDebit() bool {
	return t.Direction == DirectionDebit
}

// IsCredit returns true if the transaction moved money into the wallet.
func (t *ParsedTransaction) IsCredit() bool {
	return t.Direction == DirectionCredit
}

// Counterparty returns the name of the other party, if any.
func (t *ParsedTransaction) Counterparty() (string, bool) {
	if t.Direction == DirectionDebit {
		if t.RecipientName != nil {
			return *t.RecipientName, true
		}
		if t.BusinessName != nil {
			return *t.BusinessName, true
		}
		return "", false
	}
	if t.SenderName != nil {
		return *t.SenderName, true
	}
	return "", false
}

// StringPtr is a small helper for building optional fields.
func StringPtr(s string) *string {
	return &s
}
