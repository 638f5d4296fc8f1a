// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ProfileService handles profile creation and management, enforcing the
// parent hierarchy rules between profile kinds.
type ProfileService struct {
	profiles   ProfileRepository
	authorizer *Authorizer
	metrics    EngineMetrics
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles ProfileRepository, authorizer *Authorizer) *ProfileService {
	return &ProfileService{profiles: profiles, authorizer: authorizer}
}

// SetMetrics attaches a mutation outcome sink. Pass nil to disable.
func (s *ProfileService) SetMetrics(m EngineMetrics) {
	s.metrics = m
}

// CreateProfileInput carries the caller-supplied fields for a new profile.
type CreateProfileInput struct {
	Kind            ProfileKind
	Name            string
	Summary         string
	ParentProfileID *ulid.ULID
}

// Create creates a profile owned by accountID after validating the
// parent hierarchy. Character and location profiles stand alone; item,
// kinship, and organization profiles must belong to a character owned by
// the same account. The parent is immutable after creation.
func (s *ProfileService) Create(ctx context.Context, accountID ulid.ULID, in CreateProfileInput) (p *Profile, err error) {
	defer func() { recordOutcome(s.metrics, string(EntityProfile), err) }()

	name := NormalizeName(in.Name)

	p, err = NewProfile(accountID, in.Kind, name)
	if err != nil {
		return nil, err
	}
	p.Summary = in.Summary

	if err := s.validateParent(ctx, in.Kind, in.ParentProfileID, accountID); err != nil {
		return nil, err
	}
	p.ParentProfileID = in.ParentProfileID

	exists, err := s.profiles.ExistsByName(ctx, accountID, name)
	if err != nil {
		return nil, oops.Code("PROFILE_CREATE_FAILED").With("name", name).Wrap(err)
	}
	if exists {
		return nil, oops.Code("PROFILE_NAME_TAKEN").
			With("name", name).
			Wrap(ErrConflict)
	}

	// The unique index on (account, name) backstops the check above
	// under concurrent creation; the repository reports it as ErrConflict.
	if err := s.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, oops.Code("PROFILE_CREATE_FAILED").With("id", p.ID.String()).Wrap(err)
	}
	return p, nil
}

// validateParent enforces the kind-specific hierarchy rules, in order.
func (s *ProfileService) validateParent(ctx context.Context, kind ProfileKind, parentID *ulid.ULID, accountID ulid.ULID) error {
	if kind.Independent() {
		if parentID != nil {
			return oops.Code("PROFILE_PARENT_FORBIDDEN").
				With("kind", string(kind)).
				Wrapf(ErrInvalidInput, "independent profile kinds cannot belong to another profile")
		}
		return nil
	}
	if parentID == nil {
		return oops.Code("PROFILE_PARENT_REQUIRED").
			With("kind", string(kind)).
			Wrapf(ErrInvalidInput, "must belong to a character")
	}

	parent, err := s.profiles.Get(ctx, *parentID)
	if errors.Is(err, ErrNotFound) {
		return badParentError(*parentID)
	}
	if err != nil {
		return oops.Code("PROFILE_PARENT_LOOKUP_FAILED").With("parent_id", parentID.String()).Wrap(err)
	}
	if parent.Kind != ProfileCharacter || parent.AccountID != accountID {
		return badParentError(*parentID)
	}
	return nil
}

func badParentError(parentID ulid.ULID) error {
	return oops.Code("PROFILE_PARENT_INVALID").
		With("parent_id", parentID.String()).
		Wrapf(ErrInvalidInput, "parent must be a character you own")
}

// Get retrieves an active profile.
func (s *ProfileService) Get(ctx context.Context, id ulid.ULID) (*Profile, error) {
	return s.profiles.Get(ctx, id)
}

// ListByAccount returns an account's active profiles.
func (s *ProfileService) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*Profile, error) {
	return s.profiles.ListByAccount(ctx, accountID)
}

// UpdateProfileInput carries the mutable profile fields. The parent is
// not among them.
type UpdateProfileInput struct {
	Name    string
	Summary string
}

// Update modifies a profile's name and summary. The caller must be the
// owner or an active editor.
func (s *ProfileService) Update(ctx context.Context, callerID, id ulid.ULID, in UpdateProfileInput) (p *Profile, err error) {
	defer func() { recordOutcome(s.metrics, string(EntityProfile), err) }()

	if err := s.authorizer.requireCanMutate(ctx, EntityProfile, id, callerID); err != nil {
		return nil, err
	}
	p, err = s.profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = NormalizeName(in.Name)
	p.Summary = in.Summary
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, oops.Code("PROFILE_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return p, nil
}

// SetPublished flips a profile's published flag. The caller must be the
// owner or an active editor.
func (s *ProfileService) SetPublished(ctx context.Context, callerID, id ulid.ULID, published bool) (err error) {
	defer func() { recordOutcome(s.metrics, string(EntityProfile), err) }()

	if err := s.authorizer.requireCanMutate(ctx, EntityProfile, id, callerID); err != nil {
		return err
	}
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Published = published
	if err := s.profiles.Update(ctx, p); err != nil {
		return oops.Code("PROFILE_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}

// Delete soft-deletes a profile. Only the owner may delete; editors may
// not.
func (s *ProfileService) Delete(ctx context.Context, callerID, id ulid.ULID) (err error) {
	defer func() { recordOutcome(s.metrics, string(EntityProfile), err) }()

	owner, err := s.authorizer.Resolver().OwnerOf(ctx, EntityProfile, id)
	if err != nil {
		return err
	}
	if owner != callerID {
		return oops.Code("PROFILE_DELETE_FORBIDDEN").
			With("id", id.String()).
			With("account_id", callerID.String()).
			Wrap(ErrForbidden)
	}
	if err := s.profiles.SoftDelete(ctx, id); err != nil {
		return oops.Code("PROFILE_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}
