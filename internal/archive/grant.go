// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// EditorGrant delegates mutation rights on a single entity instance to a
// non-owner account. At most one active grant exists per (entity,
// grantee) pair; a soft-deleted grant is reactivated in place so the
// grant keeps its identity across remove/re-add cycles.
type EditorGrant struct {
	ID          ulid.ULID
	EntityKind  EntityKind
	EntityID    ulid.ULID
	GranteeID   ulid.ULID
	GrantedByID ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewEditorGrant creates a new EditorGrant with a generated ID.
func NewEditorGrant(kind EntityKind, entityID, granteeID, grantedByID ulid.ULID) (*EditorGrant, error) {
	now := time.Now().UTC()
	g := &EditorGrant{
		ID:          ulid.Make(),
		EntityKind:  kind,
		EntityID:    entityID,
		GranteeID:   granteeID,
		GrantedByID: grantedByID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Active reports whether the grant has not been soft-deleted.
func (g *EditorGrant) Active() bool {
	return g.DeletedAt == nil
}

// Validate checks that the grant has required fields.
func (g *EditorGrant) Validate() error {
	if g.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if !g.EntityKind.Valid() {
		return &ValidationError{Field: "entity_kind", Message: "unknown entity kind"}
	}
	if g.EntityID.IsZero() {
		return &ValidationError{Field: "entity_id", Message: "cannot be zero"}
	}
	if g.GranteeID.IsZero() {
		return &ValidationError{Field: "grantee_id", Message: "cannot be zero"}
	}
	if g.GrantedByID.IsZero() {
		return &ValidationError{Field: "granted_by_id", Message: "cannot be zero"}
	}
	return nil
}
