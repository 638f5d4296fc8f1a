// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// CollectionPost links a post into a collection at an explicit position.
// Sort orders of active memberships are assigned densely from 0 on add
// and reorder; removal leaves gaps until the next explicit reorder.
type CollectionPost struct {
	ID           ulid.ULID
	CollectionID ulid.ULID
	PostID       ulid.ULID
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// NewCollectionPost creates a new CollectionPost with a generated ID.
func NewCollectionPost(collectionID, postID ulid.ULID, sortOrder int) (*CollectionPost, error) {
	now := time.Now().UTC()
	m := &CollectionPost{
		ID:           ulid.Make(),
		CollectionID: collectionID,
		PostID:       postID,
		SortOrder:    sortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Active reports whether the membership has not been soft-deleted.
func (m *CollectionPost) Active() bool {
	return m.DeletedAt == nil
}

// Validate checks that the membership has required fields.
func (m *CollectionPost) Validate() error {
	if m.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if m.CollectionID.IsZero() {
		return &ValidationError{Field: "collection_id", Message: "cannot be zero"}
	}
	if m.PostID.IsZero() {
		return &ValidationError{Field: "post_id", Message: "cannot be zero"}
	}
	if m.SortOrder < 0 {
		return &ValidationError{Field: "sort_order", Message: "cannot be negative"}
	}
	return nil
}
