// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// AccountRepository reads account references. Account creation and
// credentials are outside the engine.
type AccountRepository interface {
	// GetByID retrieves an active account by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByUsername retrieves an active account by username
	// (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

// ProfileRepository manages profile persistence.
// Get and OwnerOf only see active (non-soft-deleted) rows.
type ProfileRepository interface {
	// Get retrieves an active profile by ID.
	Get(ctx context.Context, id ulid.ULID) (*Profile, error)

	// Create persists a new profile.
	// Returns ErrConflict if the account already has an active profile
	// with the same name.
	Create(ctx context.Context, p *Profile) error

	// Update modifies an existing active profile.
	Update(ctx context.Context, p *Profile) error

	// SoftDelete tombstones an active profile.
	SoftDelete(ctx context.Context, id ulid.ULID) error

	// ListByAccount returns all active profiles owned by an account,
	// ordered by creation time.
	ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*Profile, error)

	// ExistsByName reports whether the account has an active profile
	// with the given name (case-insensitive).
	ExistsByName(ctx context.Context, accountID ulid.ULID, name string) (bool, error)

	// OwnerOf returns the owning account of an active profile.
	OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error)
}

// PostRepository manages post persistence.
type PostRepository interface {
	// Get retrieves an active post by ID.
	Get(ctx context.Context, id ulid.ULID) (*Post, error)

	// Create persists a new post.
	Create(ctx context.Context, p *Post) error

	// Update modifies an existing active post.
	Update(ctx context.Context, p *Post) error

	// SoftDelete tombstones an active post.
	SoftDelete(ctx context.Context, id ulid.ULID) error

	// ListByAccount returns all active posts owned by an account,
	// ordered by creation time.
	ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*Post, error)

	// OwnerOf returns the owning account of an active post.
	OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error)
}

// CollectionRepository manages collection persistence.
type CollectionRepository interface {
	// Get retrieves an active collection by ID.
	Get(ctx context.Context, id ulid.ULID) (*Collection, error)

	// Create persists a new collection.
	Create(ctx context.Context, c *Collection) error

	// Update modifies an existing active collection.
	Update(ctx context.Context, c *Collection) error

	// SoftDelete tombstones an active collection.
	SoftDelete(ctx context.Context, id ulid.ULID) error

	// ListByAccount returns all active collections owned by an account,
	// ordered by creation time.
	ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*Collection, error)

	// OwnerOf returns the owning account of an active collection.
	OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error)
}

// EditorGrantRecord is a grant joined with the usernames of its grantee
// and grantor, as returned to the listing operation.
type EditorGrantRecord struct {
	EditorGrant
	GranteeUsername   string
	GrantedByUsername string
}

// GrantRepository manages editor grant persistence. Lookups by ID return
// the row whether or not it is tombstoned; callers check Active.
type GrantRepository interface {
	// Get retrieves a grant by ID, tombstoned or not.
	Get(ctx context.Context, id ulid.ULID) (*EditorGrant, error)

	// ListActive returns active grants for an entity with grantee and
	// grantor usernames, ordered by grant creation time ascending.
	ListActive(ctx context.Context, kind EntityKind, entityID ulid.ULID) ([]*EditorGrantRecord, error)

	// FindByGrantee returns the grant for (entity, grantee) whether or
	// not it is tombstoned. Returns ErrNotFound if no row exists.
	FindByGrantee(ctx context.Context, kind EntityKind, entityID, granteeID ulid.ULID) (*EditorGrant, error)

	// ActiveExists reports whether an active grant exists for the
	// (entity, grantee) pair.
	ActiveExists(ctx context.Context, kind EntityKind, entityID, granteeID ulid.ULID) (bool, error)

	// Create persists a new grant.
	// Returns ErrConflict on an active duplicate for the same pair.
	Create(ctx context.Context, g *EditorGrant) error

	// Reactivate clears the tombstone on a grant, refreshing the
	// grantor and timestamp while keeping the grant ID, and returns
	// the updated row.
	Reactivate(ctx context.Context, id, grantedByID ulid.ULID) (*EditorGrant, error)

	// SoftDelete tombstones an active grant.
	SoftDelete(ctx context.Context, id ulid.ULID) error
}

// AttributionRecord is an attribution joined with the credited profile's
// name, as returned to callers.
type AttributionRecord struct {
	AuthorAttribution
	ProfileName string
}

// AttributionRepository manages author attribution persistence.
type AttributionRepository interface {
	// Get retrieves an attribution by ID, tombstoned or not.
	Get(ctx context.Context, id ulid.ULID) (*AuthorAttribution, error)

	// ListActive returns active attributions for a content instance
	// with profile names, primary first, then by creation time.
	ListActive(ctx context.Context, kind ContentKind, contentID ulid.ULID) ([]*AttributionRecord, error)

	// FindByProfile returns the attribution for (content, profile)
	// whether or not it is tombstoned. Returns ErrNotFound if no row
	// exists.
	FindByProfile(ctx context.Context, kind ContentKind, contentID, profileID ulid.ULID) (*AuthorAttribution, error)

	// GetPrimary returns the active primary attribution of a content
	// instance, or ErrNotFound.
	GetPrimary(ctx context.Context, kind ContentKind, contentID ulid.ULID) (*AuthorAttribution, error)

	// Create persists a new attribution.
	// Returns ErrConflict on an active duplicate for the same pair.
	Create(ctx context.Context, a *AuthorAttribution) error

	// Reactivate clears the tombstone on an attribution, preserving its
	// prior primary flag, and returns the updated row.
	Reactivate(ctx context.Context, id ulid.ULID) (*AuthorAttribution, error)

	// SetPrimary updates the primary flag of an active attribution.
	SetPrimary(ctx context.Context, id ulid.ULID, isPrimary bool) error

	// SoftDelete tombstones an active attribution.
	SoftDelete(ctx context.Context, id ulid.ULID) error
}

// MembershipRepository manages collection membership persistence.
type MembershipRepository interface {
	// Get retrieves a membership by ID, tombstoned or not.
	Get(ctx context.Context, id ulid.ULID) (*CollectionPost, error)

	// ListActive returns active memberships of a collection ordered by
	// sort order ascending.
	ListActive(ctx context.Context, collectionID ulid.ULID) ([]*CollectionPost, error)

	// ListPosts returns the active posts of a collection in membership
	// sort order.
	ListPosts(ctx context.Context, collectionID ulid.ULID) ([]*Post, error)

	// FindByPost returns the membership for (collection, post) whether
	// or not it is tombstoned. Returns ErrNotFound if no row exists.
	FindByPost(ctx context.Context, collectionID, postID ulid.ULID) (*CollectionPost, error)

	// CountActive returns the number of active memberships in a
	// collection.
	CountActive(ctx context.Context, collectionID ulid.ULID) (int, error)

	// Create persists a new membership.
	// Returns ErrConflict on an active duplicate for the same pair.
	Create(ctx context.Context, m *CollectionPost) error

	// Reactivate clears the tombstone on a membership and assigns it
	// the given sort order, returning the updated row.
	Reactivate(ctx context.Context, id ulid.ULID, sortOrder int) (*CollectionPost, error)

	// UpdateSortOrder sets the sort order of an active membership.
	UpdateSortOrder(ctx context.Context, id ulid.ULID, sortOrder int) error

	// SoftDelete tombstones an active membership.
	SoftDelete(ctx context.Context, id ulid.ULID) error
}

// Transactor runs a function inside a single storage transaction.
// Repository methods called with the context passed to fn participate in
// that transaction.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
