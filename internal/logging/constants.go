package logging

// Standardized field names for structured logging. Keeping these consistent
// makes run logs filterable by template, category, and parse status.
const (
	FieldMessageID   = "message_id"
	FieldTemplate    = "template"
	FieldCategory    = "category"
	FieldStatus      = "status"
	FieldReason      = "reason"
	FieldFingerprint = "fingerprint"
	FieldConfidence  = "confidence"
	FieldCount       = "count"
	FieldDuration    = "duration_ms"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldRunID       = "run_id"
	FieldWorkers     = "workers"
)
