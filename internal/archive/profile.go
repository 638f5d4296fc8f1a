// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Profile represents an in-world entity owned by an account: a character,
// item, kinship, organization, or location. Dependent kinds (item,
// kinship, organization) belong to a parent character; the parent is
// fixed at creation and never changes.
type Profile struct {
	ID              ulid.ULID
	AccountID       ulid.ULID
	Kind            ProfileKind
	Name            string
	Summary         string
	ParentProfileID *ulid.ULID
	Published       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// NewProfile creates a new Profile with a generated ID.
// The profile is validated before being returned; parent hierarchy rules
// are enforced separately by ProfileService.
func NewProfile(accountID ulid.ULID, kind ProfileKind, name string) (*Profile, error) {
	now := time.Now().UTC()
	p := &Profile{
		ID:        ulid.Make(),
		AccountID: accountID,
		Kind:      kind,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Active reports whether the profile has not been soft-deleted.
func (p *Profile) Active() bool {
	return p.DeletedAt == nil
}

// Validate checks that the profile has required fields.
func (p *Profile) Validate() error {
	if p.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if p.AccountID.IsZero() {
		return &ValidationError{Field: "account_id", Message: "cannot be zero"}
	}
	if !p.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: "unknown profile kind"}
	}
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	return ValidateDescription(p.Summary)
}
