// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import "errors"

// Sentinel errors for the outcomes the engine resolves itself. Callers
// classify results with errors.Is; the oops wrappers around them carry
// codes and context for logging.
var (
	// ErrNotFound is returned when an entity, grant, attribution,
	// membership, or target account does not exist or is soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller lacks the required
	// capability (ownership or an active editor grant).
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when an active duplicate relationship
	// already exists.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput is returned for rule violations: hierarchy
	// mismatches, primary-author removal, post-kind incompatibility,
	// and malformed input.
	ErrInvalidInput = errors.New("invalid input")
)
