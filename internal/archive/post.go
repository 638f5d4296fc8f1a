// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// Post represents a piece of archived content: writing, art, media, or
// an event. The content payload is opaque to the engine.
type Post struct {
	ID        ulid.ULID
	AccountID ulid.ULID
	Kind      PostKind
	Title     string
	Content   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewPost creates a new Post with a generated ID.
// The post is validated before being returned.
func NewPost(accountID ulid.ULID, kind PostKind, title string) (*Post, error) {
	now := time.Now().UTC()
	p := &Post{
		ID:        ulid.Make(),
		AccountID: accountID,
		Kind:      kind,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Active reports whether the post has not been soft-deleted.
func (p *Post) Active() bool {
	return p.DeletedAt == nil
}

// Validate checks that the post has required fields.
func (p *Post) Validate() error {
	if p.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if p.AccountID.IsZero() {
		return &ValidationError{Field: "account_id", Message: "cannot be zero"}
	}
	if !p.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: "unknown post kind"}
	}
	return ValidateTitle(p.Title)
}
