// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
)

// Collection represents an ordered grouping of posts. AllowedPostKinds
// restricts which post kinds may be added; a nil set accepts any kind.
// The set is derived from the collection kind at creation and does not
// change afterwards.
type Collection struct {
	ID               ulid.ULID
	AccountID        ulid.ULID
	Kind             CollectionKind
	Title            string
	Description      string
	Content          json.RawMessage
	AllowedPostKinds []PostKind
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// NewCollection creates a new Collection with a generated ID and the
// allowed post kinds implied by its kind.
// The collection is validated before being returned.
func NewCollection(accountID ulid.ULID, kind CollectionKind, title string) (*Collection, error) {
	now := time.Now().UTC()
	c := &Collection{
		ID:               ulid.Make(),
		AccountID:        accountID,
		Kind:             kind,
		Title:            title,
		AllowedPostKinds: kind.DefaultAllowedPostKinds(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Active reports whether the collection has not been soft-deleted.
func (c *Collection) Active() bool {
	return c.DeletedAt == nil
}

// Accepts reports whether a post of the given kind may be added to the
// collection.
func (c *Collection) Accepts(kind PostKind) bool {
	if c.AllowedPostKinds == nil {
		return true
	}
	return slices.Contains(c.AllowedPostKinds, kind)
}

// Validate checks that the collection has required fields.
func (c *Collection) Validate() error {
	if c.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if c.AccountID.IsZero() {
		return &ValidationError{Field: "account_id", Message: "cannot be zero"}
	}
	if !c.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: "unknown collection kind"}
	}
	if err := ValidateTitle(c.Title); err != nil {
		return err
	}
	return ValidateDescription(c.Description)
}
