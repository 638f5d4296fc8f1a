// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// OwnerResolver resolves the owning account of an entity via static
// dispatch over the closed set of entity kinds.
type OwnerResolver struct {
	profiles    ProfileRepository
	posts       PostRepository
	collections CollectionRepository
}

// NewOwnerResolver creates an OwnerResolver over the three aggregates.
func NewOwnerResolver(profiles ProfileRepository, posts PostRepository, collections CollectionRepository) *OwnerResolver {
	return &OwnerResolver{
		profiles:    profiles,
		posts:       posts,
		collections: collections,
	}
}

// OwnerOf returns the owning account of an active entity.
// Returns ErrNotFound if the entity does not exist or is soft-deleted.
func (r *OwnerResolver) OwnerOf(ctx context.Context, kind EntityKind, id ulid.ULID) (ulid.ULID, error) {
	switch kind {
	case EntityProfile:
		return r.profiles.OwnerOf(ctx, id)
	case EntityPost:
		return r.posts.OwnerOf(ctx, id)
	case EntityCollection:
		return r.collections.OwnerOf(ctx, id)
	default:
		return ulid.ULID{}, oops.Code("ENTITY_KIND_INVALID").With("kind", string(kind)).Wrap(ErrInvalidInput)
	}
}

// IsOwner reports whether the account owns the entity.
// A missing or soft-deleted entity is simply "not owner".
func (r *OwnerResolver) IsOwner(ctx context.Context, kind EntityKind, id, accountID ulid.ULID) (bool, error) {
	owner, err := r.OwnerOf(ctx, kind, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner == accountID, nil
}

// DenialHook observes denied mutation attempts, typically to feed a
// metrics counter. It receives the entity kind that was targeted.
type DenialHook func(entityKind string)

// Authorizer answers the owner-or-editor capability question that gates
// every mutation. Results are computed fresh on every call and never
// cached across requests.
type Authorizer struct {
	resolver *OwnerResolver
	grants   GrantRepository
	onDenied DenialHook
}

// NewAuthorizer creates an Authorizer.
func NewAuthorizer(resolver *OwnerResolver, grants GrantRepository) *Authorizer {
	return &Authorizer{resolver: resolver, grants: grants}
}

// SetDenialHook registers fn to be called whenever a mutation check is
// denied. Pass nil to disable.
func (a *Authorizer) SetDenialHook(fn DenialHook) {
	a.onDenied = fn
}

// Resolver returns the underlying owner resolver.
func (a *Authorizer) Resolver() *OwnerResolver {
	return a.resolver
}

// CanMutate reports whether the account may mutate the entity: it is the
// owner or holds an active editor grant. Returns ErrNotFound if the
// entity does not exist or is soft-deleted.
func (a *Authorizer) CanMutate(ctx context.Context, kind EntityKind, id, accountID ulid.ULID) (bool, error) {
	owner, err := a.resolver.OwnerOf(ctx, kind, id)
	if err != nil {
		return false, err
	}
	if owner == accountID {
		return true, nil
	}
	granted, err := a.grants.ActiveExists(ctx, kind, id, accountID)
	if err != nil {
		return false, oops.Code("GRANT_LOOKUP_FAILED").
			With("entity_kind", string(kind)).
			With("entity_id", id.String()).
			Wrap(err)
	}
	return granted, nil
}

// requireCanMutate converts a negative capability check into ErrForbidden.
func (a *Authorizer) requireCanMutate(ctx context.Context, kind EntityKind, id, accountID ulid.ULID) error {
	ok, err := a.CanMutate(ctx, kind, id, accountID)
	if err != nil {
		return err
	}
	if !ok {
		if a.onDenied != nil {
			a.onDenied(string(kind))
		}
		return oops.Code("MUTATION_FORBIDDEN").
			With("entity_kind", string(kind)).
			With("entity_id", id.String()).
			With("account_id", accountID.String()).
			Wrap(ErrForbidden)
	}
	return nil
}
