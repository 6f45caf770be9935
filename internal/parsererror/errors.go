// Package parsererror defines the typed errors used across the engine.
// Per-message failures are not errors — they travel as FailureRecord values.
// Errors here cover configuration problems that must fail fast.
package parsererror

import "fmt"

// TemplateError reports a malformed template definition. Raised at library
// construction time, never during per-message parsing.
type TemplateError struct {
	Template string
	Reason   string
	Err      error
}

func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template %s: %s: %v", e.Template, e.Reason, e.Err)
	}
	return fmt.Sprintf("template %s: %s", e.Template, e.Reason)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// ConfigError reports invalid engine configuration.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

// InputError reports an unreadable or structurally invalid input file.
type InputError struct {
	Path string
	Msg  string
	Err  error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("input %s: %s", e.Path, e.Msg)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
