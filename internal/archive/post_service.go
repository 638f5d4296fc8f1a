// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"context"
	"encoding/json"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// PostService handles post creation and management. Creating a post with
// an author profile writes the post and its primary attribution in one
// transaction; this is the only path that sets a primary attribution
// directly.
type PostService struct {
	posts        PostRepository
	profiles     ProfileRepository
	attributions AttributionRepository
	authorizer   *Authorizer
	transactor   Transactor
	metrics      EngineMetrics
}

// NewPostService creates a PostService.
func NewPostService(posts PostRepository, profiles ProfileRepository, attributions AttributionRepository, authorizer *Authorizer, transactor Transactor) *PostService {
	return &PostService{
		posts:        posts,
		profiles:     profiles,
		attributions: attributions,
		authorizer:   authorizer,
		transactor:   transactor,
	}
}

// SetMetrics attaches a mutation outcome sink. Pass nil to disable.
func (s *PostService) SetMetrics(m EngineMetrics) {
	s.metrics = m
}

// CreatePostInput carries the caller-supplied fields for a new post.
type CreatePostInput struct {
	Kind            PostKind
	Title           string
	Content         json.RawMessage
	AuthorProfileID *ulid.ULID
}

// Create creates a post owned by accountID. If an author profile is
// supplied it must be an active, authorable profile owned by the caller;
// its attribution is created as primary atomically with the post.
func (s *PostService) Create(ctx context.Context, accountID ulid.ULID, in CreatePostInput) (p *Post, err error) {
	defer func() { recordOutcome(s.metrics, string(EntityPost), err) }()

	p, err = NewPost(accountID, in.Kind, in.Title)
	if err != nil {
		return nil, err
	}
	p.Content = in.Content

	var attribution *AuthorAttribution
	if in.AuthorProfileID != nil {
		if _, err := authorableProfile(ctx, s.profiles, accountID, *in.AuthorProfileID); err != nil {
			return nil, err
		}
		attribution, err = NewAuthorAttribution(ContentPost, p.ID, *in.AuthorProfileID, true)
		if err != nil {
			return nil, err
		}
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.posts.Create(ctx, p); err != nil {
			return err
		}
		if attribution != nil {
			return s.attributions.Create(ctx, attribution)
		}
		return nil
	})
	if err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").With("id", p.ID.String()).Wrap(err)
	}
	return p, nil
}

// Get retrieves an active post.
func (s *PostService) Get(ctx context.Context, id ulid.ULID) (*Post, error) {
	return s.posts.Get(ctx, id)
}

// ListByAccount returns an account's active posts.
func (s *PostService) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*Post, error) {
	return s.posts.ListByAccount(ctx, accountID)
}

// UpdatePostInput carries the mutable post fields.
type UpdatePostInput struct {
	Title   string
	Content json.RawMessage
}

// Update modifies a post's title and content. The caller must be the
// owner or an active editor.
func (s *PostService) Update(ctx context.Context, callerID, id ulid.ULID, in UpdatePostInput) (p *Post, err error) {
	defer func() { recordOutcome(s.metrics, string(EntityPost), err) }()

	if err := s.authorizer.requireCanMutate(ctx, EntityPost, id, callerID); err != nil {
		return nil, err
	}
	p, err = s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Title = in.Title
	p.Content = in.Content
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, oops.Code("POST_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return p, nil
}

// Delete soft-deletes a post. Only the owner may delete.
func (s *PostService) Delete(ctx context.Context, callerID, id ulid.ULID) (err error) {
	defer func() { recordOutcome(s.metrics, string(EntityPost), err) }()

	owner, err := s.authorizer.Resolver().OwnerOf(ctx, EntityPost, id)
	if err != nil {
		return err
	}
	if owner != callerID {
		return oops.Code("POST_DELETE_FORBIDDEN").
			With("id", id.String()).
			With("account_id", callerID.String()).
			Wrap(ErrForbidden)
	}
	if err := s.posts.SoftDelete(ctx, id); err != nil {
		return oops.Code("POST_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}
