package models

import "time"

// RawMessage is one SMS notification as delivered by the XML reader.
// The engine never mutates it; the original body is carried through to the
// parsed record for audit and re-parsing.
type RawMessage struct {
	// Body is the free-text SMS content.
	Body string `json:"body"`

	// Timestamp is the provider timestamp attached to the message.
	Timestamp time.Time `json:"timestamp"`

	// SourceID is an opaque identifier from the export, used only for
	// traceability in logs and failure records.
	SourceID string `json:"source_id"`
}
