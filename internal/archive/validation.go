// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation limits for domain types.
const (
	MaxNameLength        = 100
	MaxTitleLength       = 200
	MaxDescriptionLength = 4000
)

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalidInput so callers can
// classify without knowing the field.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ValidateName checks that a profile name is valid.
// Names must be non-empty, valid UTF-8, free of control characters, and
// within the length limit.
func ValidateName(name string) error {
	return validateText("name", name, MaxNameLength, false)
}

// ValidateTitle checks that a post or collection title is valid.
func ValidateTitle(title string) error {
	return validateText("title", title, MaxTitleLength, false)
}

// ValidateDescription checks an optional description or summary.
func ValidateDescription(desc string) error {
	return validateText("description", desc, MaxDescriptionLength, true)
}

func validateText(field, s string, maxLen int, optional bool) error {
	if s == "" {
		if optional {
			return nil
		}
		return &ValidationError{Field: field, Message: "cannot be empty"}
	}
	if !utf8.ValidString(s) {
		return &ValidationError{Field: field, Message: "must be valid UTF-8"}
	}
	if len(s) > maxLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("exceeds maximum length of %d", maxLen)}
	}
	if hasControlChars(s) {
		return &ValidationError{Field: field, Message: "cannot contain control characters"}
	}
	return nil
}

// NormalizeName trims surrounding whitespace and collapses internal runs
// of whitespace to single spaces. Names are compared case-insensitively
// in storage, so no case folding happens here.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' {
			return true
		}
	}
	return false
}
