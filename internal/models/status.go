package models

import "time"

// ParseStatus is the terminal outcome of processing one message. Every
// message yields exactly one of these; none is ever silently dropped.
type ParseStatus string

const (
	StatusAccepted  ParseStatus = "ACCEPTED"
	StatusPartial   ParseStatus = "PARTIAL"
	StatusRejected  ParseStatus = "REJECTED"
	StatusDuplicate ParseStatus = "DUPLICATE"
)

// FailureReason explains why a message was routed to the failure sink, or
// annotates an otherwise-successful result (AMBIGUOUS_MATCH).
type FailureReason string

const (
	ReasonNoTemplateMatch      FailureReason = "NO_TEMPLATE_MATCH"
	ReasonMissingRequiredField FailureReason = "MISSING_REQUIRED_FIELD"
	ReasonInvalidAmount        FailureReason = "INVALID_AMOUNT"
	ReasonAmbiguousMatch       FailureReason = "AMBIGUOUS_MATCH"
	ReasonDuplicate            FailureReason = "DUPLICATE"
)

// FailureRecord captures an unparseable or rejected message for the audit
// log. Immutable once created.
type FailureRecord struct {
	RawText     string        `json:"raw_text"`
	SourceID    string        `json:"source_id,omitempty"`
	Reason      FailureReason `json:"reason"`
	Detail      string        `json:"detail,omitempty"`
	ProcessedAt time.Time     `json:"processed_at"`
}
