package errors

import (
	"strings"
)

// ValidateFieldText checks that s can be written as a single feature table
// column. The table format has no quoting, so tabs and line breaks would
// silently shift columns or split rows.
//
// what names the field in the returned error (e.g. "qualifier key").
func ValidateFieldText(what, s string) error {
	if i := strings.IndexAny(s, "\t\r\n"); i >= 0 {
		return New(ErrCodeInvalidInput, "%s %q contains a tab or line break at byte %d", what, s, i)
	}
	return nil
}

// ValidateRange checks a zero-based half-open interval.
//
// Validation rules:
//   - start must not be negative
//   - start must not exceed end
func ValidateRange(what string, start, end int) error {
	if start < 0 {
		return New(ErrCodeInvalidInput, "%s: negative start %d", what, start)
	}
	if start > end {
		return New(ErrCodeInvalidInput, "%s: start %d is after end %d", what, start, end)
	}
	return nil
}
