// Package normalize provides pure canonicalization functions for the raw
// substrings captured by templates: amounts, phone numbers, timestamps, and
// free-text names. No function here has side effects or package state, so
// each is unit-testable in isolation from the template library.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	amountJunk   = regexp.MustCompile(`[^\d.,-]`)
	phoneJunk    = regexp.MustCompile(`[^\d+]`)
	spaceRun     = regexp.MustCompile(`\s+`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	nameBoundary = " \t\n\r.,:;()*-"
)

// Amount parses a captured amount string into a positive decimal. Grouping
// separators and currency tokens are stripped first. Non-numeric or
// non-positive values are an error; the dispatcher maps that error to
// INVALID_AMOUNT.
func Amount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = amountJunk.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount %q contains no digits", raw)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not numeric: %w", raw, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount %q is not positive", raw)
	}
	return amount, nil
}

// NonNegativeAmount is Amount without the positivity requirement. Fees are
// legitimately zero; only the principal amount slot must be positive.
func NonNegativeAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = amountJunk.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount %q contains no digits", raw)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not numeric: %w", raw, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q is negative", raw)
	}
	return amount, nil
}

// Phone normalizes a phone number to canonical +<countryCode><subscriber>
// form. The three accepted variants of the same subscriber number —
// "+250788123456", "250788123456", and "0788123456" — all normalize to the
// same string. Input that cannot be normalized (masked numbers like
// "*********013", short codes) is returned verbatim as opaque text rather
// than discarded.
func Phone(raw, countryCode string) string {
	cleaned := phoneJunk.ReplaceAllString(strings.TrimSpace(raw), "")

	national := strings.TrimPrefix(cleaned, "+")
	switch {
	case strings.HasPrefix(national, countryCode) && len(national) == len(countryCode)+9:
		return "+" + national
	case strings.HasPrefix(national, "0") && len(national) == 10:
		return "+" + countryCode + national[1:]
	}

	return raw
}

// Timestamp accepts either an epoch-like integer (seconds or milliseconds)
// or a pre-formatted date string and returns a UTC time. The millisecond
// interpretation is chosen for values too large to be plausible as seconds.
func Timestamp(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if digitsOnly.MatchString(trimmed) {
		epoch, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("epoch timestamp %q: %w", raw, err)
		}
		// 13+ digit values are milliseconds (SMS backup exports use millis).
		if epoch > 1e12 {
			return time.UnixMilli(epoch).UTC(), nil
		}
		return time.Unix(epoch, 0).UTC(), nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02",
		"02/01/2006 15:04:05",
		"02/01/2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", raw)
}

// Name trims the punctuation and whitespace artifacts that capture
// boundaries leave around free-text name fields, and collapses internal
// whitespace runs.
func Name(raw string) string {
	trimmed := strings.Trim(raw, nameBoundary)
	return spaceRun.ReplaceAllString(trimmed, " ")
}
