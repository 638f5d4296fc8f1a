// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CollectionService handles collection management: creation with an
// optional primary author, and curation of member posts with kind
// compatibility and explicit ordering.
type CollectionService struct {
	collections  CollectionRepository
	posts        PostRepository
	profiles     ProfileRepository
	attributions AttributionRepository
	memberships  MembershipRepository
	authorizer   *Authorizer
	transactor   Transactor
	metrics      EngineMetrics
}

// CollectionServiceConfig holds dependencies for CollectionService.
type CollectionServiceConfig struct {
	Collections  CollectionRepository
	Posts        PostRepository
	Profiles     ProfileRepository
	Attributions AttributionRepository
	Memberships  MembershipRepository
	Authorizer   *Authorizer
	Transactor   Transactor
}

// NewCollectionService creates a CollectionService.
func NewCollectionService(cfg CollectionServiceConfig) *CollectionService {
	return &CollectionService{
		collections:  cfg.Collections,
		posts:        cfg.Posts,
		profiles:     cfg.Profiles,
		attributions: cfg.Attributions,
		memberships:  cfg.Memberships,
		authorizer:   cfg.Authorizer,
		transactor:   cfg.Transactor,
	}
}

// SetMetrics attaches a mutation outcome sink. Pass nil to disable.
func (s *CollectionService) SetMetrics(m EngineMetrics) {
	s.metrics = m
}

// CreateCollectionInput carries the caller-supplied fields for a new
// collection. The allowed post kinds are derived from the kind, not
// supplied.
type CreateCollectionInput struct {
	Kind            CollectionKind
	Title           string
	Description     string
	Content         json.RawMessage
	AuthorProfileID *ulid.ULID
}

// Create creates a collection owned by accountID. If an author profile
// is supplied its primary attribution is created atomically with the
// collection, under the same authorable-profile rule as AuthorService.
func (s *CollectionService) Create(ctx context.Context, accountID ulid.ULID, in CreateCollectionInput) (c *Collection, err error) {
	defer func() { recordOutcome(s.metrics, string(EntityCollection), err) }()

	c, err = NewCollection(accountID, in.Kind, in.Title)
	if err != nil {
		return nil, err
	}
	c.Description = in.Description
	c.Content = in.Content
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var attribution *AuthorAttribution
	if in.AuthorProfileID != nil {
		if _, err := authorableProfile(ctx, s.profiles, accountID, *in.AuthorProfileID); err != nil {
			return nil, err
		}
		attribution, err = NewAuthorAttribution(ContentCollection, c.ID, *in.AuthorProfileID, true)
		if err != nil {
			return nil, err
		}
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.collections.Create(ctx, c); err != nil {
			return err
		}
		if attribution != nil {
			return s.attributions.Create(ctx, attribution)
		}
		return nil
	})
	if err != nil {
		return nil, oops.Code("COLLECTION_CREATE_FAILED").With("id", c.ID.String()).Wrap(err)
	}
	return c, nil
}

// Get retrieves an active collection.
func (s *CollectionService) Get(ctx context.Context, id ulid.ULID) (*Collection, error) {
	return s.collections.Get(ctx, id)
}

// ListByAccount returns an account's active collections.
func (s *CollectionService) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*Collection, error) {
	return s.collections.ListByAccount(ctx, accountID)
}

// UpdateCollectionInput carries the mutable collection fields. The kind
// and the allowed post kinds are fixed at creation.
type UpdateCollectionInput struct {
	Title       string
	Description string
	Content     json.RawMessage
}

// Update modifies a collection's title, description, and content. The
// caller must be the owner or an active editor.
func (s *CollectionService) Update(ctx context.Context, callerID, id ulid.ULID, in UpdateCollectionInput) (c *Collection, err error) {
	defer func() { recordOutcome(s.metrics, string(EntityCollection), err) }()

	if err := s.authorizer.requireCanMutate(ctx, EntityCollection, id, callerID); err != nil {
		return nil, err
	}
	c, err = s.collections.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Title = in.Title
	c.Description = in.Description
	c.Content = in.Content
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.collections.Update(ctx, c); err != nil {
		return nil, oops.Code("COLLECTION_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return c, nil
}

// Delete soft-deletes a collection. Only the owner may delete.
func (s *CollectionService) Delete(ctx context.Context, callerID, id ulid.ULID) (err error) {
	defer func() { recordOutcome(s.metrics, string(EntityCollection), err) }()

	owner, err := s.authorizer.Resolver().OwnerOf(ctx, EntityCollection, id)
	if err != nil {
		return err
	}
	if owner != callerID {
		return oops.Code("COLLECTION_DELETE_FORBIDDEN").
			With("id", id.String()).
			With("account_id", callerID.String()).
			Wrap(ErrForbidden)
	}
	if err := s.collections.SoftDelete(ctx, id); err != nil {
		return oops.Code("COLLECTION_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}

// AddPost links a post into the collection, appending it to the end of
// the ordering. The post's kind must be accepted by the collection. A
// previously removed membership is reactivated under its original ID.
func (s *CollectionService) AddPost(ctx context.Context, collectionID, callerID, postID ulid.ULID) (membership *CollectionPost, err error) {
	defer func() { recordOutcome(s.metrics, metricCollectionPost, err) }()

	if err := s.authorizer.requireCanMutate(ctx, EntityCollection, collectionID, callerID); err != nil {
		return nil, err
	}

	existing, err := s.memberships.FindByPost(ctx, collectionID, postID)
	if err == nil && existing.Active() {
		return nil, oops.Code("MEMBERSHIP_DUPLICATE").
			With("collection_id", collectionID.String()).
			With("post_id", postID.String()).
			Wrap(ErrConflict)
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("MEMBERSHIP_LOOKUP_FAILED").With("collection_id", collectionID.String()).Wrap(err)
	}

	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	collection, err := s.collections.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !collection.Accepts(post.Kind) {
		return nil, oops.Code("MEMBERSHIP_KIND_MISMATCH").
			With("collection_kind", string(collection.Kind)).
			With("post_kind", string(post.Kind)).
			Wrapf(ErrInvalidInput, "%s posts cannot be added to a %s collection", post.Kind, collection.Kind)
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		count, err := s.memberships.CountActive(ctx, collectionID)
		if err != nil {
			return err
		}
		if existing != nil {
			membership, err = s.memberships.Reactivate(ctx, existing.ID, count)
			return err
		}
		membership, err = NewCollectionPost(collectionID, postID, count)
		if err != nil {
			return err
		}
		return s.memberships.Create(ctx, membership)
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, oops.Code("MEMBERSHIP_ADD_FAILED").
			With("collection_id", collectionID.String()).
			With("post_id", postID.String()).
			Wrap(err)
	}
	return membership, nil
}

// RemovePost soft-deletes a post's membership in the collection. The
// remaining sort orders are not compacted; gaps persist until the next
// explicit reorder.
func (s *CollectionService) RemovePost(ctx context.Context, collectionID, callerID, postID ulid.ULID) (err error) {
	defer func() { recordOutcome(s.metrics, metricCollectionPost, err) }()

	if err := s.authorizer.requireCanMutate(ctx, EntityCollection, collectionID, callerID); err != nil {
		return err
	}

	m, err := s.memberships.FindByPost(ctx, collectionID, postID)
	if err != nil {
		return err
	}
	if !m.Active() {
		return oops.Code("MEMBERSHIP_NOT_FOUND").
			With("collection_id", collectionID.String()).
			With("post_id", postID.String()).
			Wrap(ErrNotFound)
	}

	if err := s.memberships.SoftDelete(ctx, m.ID); err != nil {
		return oops.Code("MEMBERSHIP_REMOVE_FAILED").With("id", m.ID.String()).Wrap(err)
	}
	return nil
}

// Reorder rewrites the sort order of the collection's active memberships
// to match the supplied sequence, in one transaction. The sequence must
// be a complete permutation of the active member posts; partial
// sequences are rejected rather than silently leaving stale positions.
func (s *CollectionService) Reorder(ctx context.Context, collectionID, callerID ulid.ULID, orderedPostIDs []ulid.ULID) (err error) {
	defer func() { recordOutcome(s.metrics, metricCollectionPost, err) }()

	if err := s.authorizer.requireCanMutate(ctx, EntityCollection, collectionID, callerID); err != nil {
		return err
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		active, err := s.memberships.ListActive(ctx, collectionID)
		if err != nil {
			return err
		}
		byPost := make(map[ulid.ULID]*CollectionPost, len(active))
		for _, m := range active {
			byPost[m.PostID] = m
		}
		if len(orderedPostIDs) != len(active) {
			return reorderInputError(collectionID, len(active), len(orderedPostIDs))
		}
		seen := make(map[ulid.ULID]bool, len(orderedPostIDs))
		for i, postID := range orderedPostIDs {
			m, ok := byPost[postID]
			if !ok || seen[postID] {
				return reorderInputError(collectionID, len(active), len(orderedPostIDs))
			}
			seen[postID] = true
			if err := s.memberships.UpdateSortOrder(ctx, m.ID, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return err
		}
		return oops.Code("MEMBERSHIP_REORDER_FAILED").With("collection_id", collectionID.String()).Wrap(err)
	}
	return nil
}

func reorderInputError(collectionID ulid.ULID, active, supplied int) error {
	return oops.Code("MEMBERSHIP_REORDER_INCOMPLETE").
		With("collection_id", collectionID.String()).
		With("active", active).
		With("supplied", supplied).
		Wrapf(ErrInvalidInput, "ordering must list every post in the collection exactly once")
}

// ListPosts returns the collection's active posts in their curated
// order. The collection must exist.
func (s *CollectionService) ListPosts(ctx context.Context, collectionID ulid.ULID) ([]*Post, error) {
	if _, err := s.collections.Get(ctx, collectionID); err != nil {
		return nil, err
	}
	posts, err := s.memberships.ListPosts(ctx, collectionID)
	if err != nil {
		return nil, oops.Code("MEMBERSHIP_LIST_FAILED").With("collection_id", collectionID.String()).Wrap(err)
	}
	return posts, nil
}
