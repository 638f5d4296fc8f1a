// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// EditorService manages editor delegation for any entity kind. Only the
// entity owner may grant editorship; an editor may remove themself.
type EditorService struct {
	accounts AccountRepository
	grants   GrantRepository
	resolver *OwnerResolver
	metrics  EngineMetrics
}

// NewEditorService creates an EditorService.
func NewEditorService(accounts AccountRepository, grants GrantRepository, resolver *OwnerResolver) *EditorService {
	return &EditorService{accounts: accounts, grants: grants, resolver: resolver}
}

// SetMetrics attaches a mutation outcome sink. Pass nil to disable.
func (s *EditorService) SetMetrics(m EngineMetrics) {
	s.metrics = m
}

// List returns the active editor grants of an entity with grantee and
// grantor usernames, oldest grant first. The entity must exist.
func (s *EditorService) List(ctx context.Context, kind EntityKind, entityID ulid.ULID) ([]*EditorGrantRecord, error) {
	if _, err := s.resolver.OwnerOf(ctx, kind, entityID); err != nil {
		return nil, err
	}
	records, err := s.grants.ListActive(ctx, kind, entityID)
	if err != nil {
		return nil, oops.Code("GRANT_LIST_FAILED").
			With("entity_kind", string(kind)).
			With("entity_id", entityID.String()).
			Wrap(err)
	}
	return records, nil
}

// Add grants editorship on an entity to the account with the given
// username. Only the owner may delegate. Re-adding a previously removed
// editor reactivates the original grant, keeping its ID.
func (s *EditorService) Add(ctx context.Context, kind EntityKind, entityID, callerID ulid.ULID, granteeUsername string) (g *EditorGrant, err error) {
	defer func() { recordOutcome(s.metrics, metricEditorGrant, err) }()

	owner, err := s.resolver.OwnerOf(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	if owner != callerID {
		return nil, oops.Code("GRANT_ADD_FORBIDDEN").
			With("entity_kind", string(kind)).
			With("entity_id", entityID.String()).
			With("account_id", callerID.String()).
			Wrap(ErrForbidden)
	}

	grantee, err := s.accounts.GetByUsername(ctx, granteeUsername)
	if errors.Is(err, ErrNotFound) {
		return nil, oops.Code("GRANT_GRANTEE_UNKNOWN").
			With("username", granteeUsername).
			Wrapf(ErrNotFound, "user not found")
	}
	if err != nil {
		return nil, oops.Code("GRANT_GRANTEE_LOOKUP_FAILED").With("username", granteeUsername).Wrap(err)
	}
	if grantee.ID == owner {
		return nil, oops.Code("GRANT_SELF_FORBIDDEN").
			With("entity_id", entityID.String()).
			Wrapf(ErrInvalidInput, "owner cannot be their own editor")
	}

	existing, err := s.grants.FindByGrantee(ctx, kind, entityID, grantee.ID)
	switch {
	case err == nil && existing.Active():
		return nil, oops.Code("GRANT_DUPLICATE").
			With("entity_id", entityID.String()).
			With("grantee_id", grantee.ID.String()).
			Wrap(ErrConflict)
	case err == nil:
		// Tombstoned grant for the same pair: bring it back under its
		// original ID with a fresh grantor and timestamp.
		reactivated, err := s.grants.Reactivate(ctx, existing.ID, callerID)
		if err != nil {
			return nil, oops.Code("GRANT_REACTIVATE_FAILED").With("id", existing.ID.String()).Wrap(err)
		}
		return reactivated, nil
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code("GRANT_LOOKUP_FAILED").With("entity_id", entityID.String()).Wrap(err)
	}

	g, err = NewEditorGrant(kind, entityID, grantee.ID, callerID)
	if err != nil {
		return nil, err
	}
	// The partial unique index on the active pair backstops the check
	// above; a concurrent insert surfaces here as ErrConflict.
	if err := s.grants.Create(ctx, g); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, oops.Code("GRANT_CREATE_FAILED").With("id", g.ID.String()).Wrap(err)
	}
	return g, nil
}

// Remove soft-deletes an editor grant. The caller must be the entity
// owner or the grantee removing themself.
func (s *EditorService) Remove(ctx context.Context, kind EntityKind, entityID, callerID, grantID ulid.ULID) (err error) {
	defer func() { recordOutcome(s.metrics, metricEditorGrant, err) }()

	g, err := s.grants.Get(ctx, grantID)
	if err != nil {
		return err
	}
	if !g.Active() || g.EntityKind != kind || g.EntityID != entityID {
		return oops.Code("GRANT_NOT_FOUND").
			With("id", grantID.String()).
			With("entity_id", entityID.String()).
			Wrap(ErrNotFound)
	}

	owner, err := s.resolver.OwnerOf(ctx, kind, entityID)
	if err != nil {
		return err
	}
	if callerID != owner && callerID != g.GranteeID {
		return oops.Code("GRANT_REMOVE_FORBIDDEN").
			With("id", grantID.String()).
			With("account_id", callerID.String()).
			Wrap(ErrForbidden)
	}

	if err := s.grants.SoftDelete(ctx, grantID); err != nil {
		return oops.Code("GRANT_REMOVE_FAILED").With("id", grantID.String()).Wrap(err)
	}
	return nil
}
