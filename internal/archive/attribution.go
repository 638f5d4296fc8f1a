// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// AuthorAttribution credits an in-world profile (not an account) as an
// author of a post or collection. At most one active attribution per
// (content, profile) pair, and at most one active primary attribution
// per content instance. Reactivation of a soft-deleted attribution
// preserves both its identity and its prior primary status.
type AuthorAttribution struct {
	ID          ulid.ULID
	ContentKind ContentKind
	ContentID   ulid.ULID
	ProfileID   ulid.ULID
	IsPrimary   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewAuthorAttribution creates a new AuthorAttribution with a generated ID.
func NewAuthorAttribution(kind ContentKind, contentID, profileID ulid.ULID, isPrimary bool) (*AuthorAttribution, error) {
	now := time.Now().UTC()
	a := &AuthorAttribution{
		ID:          ulid.Make(),
		ContentKind: kind,
		ContentID:   contentID,
		ProfileID:   profileID,
		IsPrimary:   isPrimary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Active reports whether the attribution has not been soft-deleted.
func (a *AuthorAttribution) Active() bool {
	return a.DeletedAt == nil
}

// Validate checks that the attribution has required fields.
func (a *AuthorAttribution) Validate() error {
	if a.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if !a.ContentKind.Valid() {
		return &ValidationError{Field: "content_kind", Message: "unknown content kind"}
	}
	if a.ContentID.IsZero() {
		return &ValidationError{Field: "content_id", Message: "cannot be zero"}
	}
	if a.ProfileID.IsZero() {
		return &ValidationError{Field: "profile_id", Message: "cannot be zero"}
	}
	return nil
}
