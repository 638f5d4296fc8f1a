// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// AuthorService manages profile-based author attributions on posts and
// collections. Owners and editors may manage authorship; the credited
// profile must belong to the caller and be of an authorable kind.
type AuthorService struct {
	profiles     ProfileRepository
	attributions AttributionRepository
	authorizer   *Authorizer
	transactor   Transactor
	metrics      EngineMetrics
}

// NewAuthorService creates an AuthorService.
func NewAuthorService(profiles ProfileRepository, attributions AttributionRepository, authorizer *Authorizer, transactor Transactor) *AuthorService {
	return &AuthorService{
		profiles:     profiles,
		attributions: attributions,
		authorizer:   authorizer,
		transactor:   transactor,
	}
}

// SetMetrics attaches a mutation outcome sink. Pass nil to disable.
func (s *AuthorService) SetMetrics(m EngineMetrics) {
	s.metrics = m
}

// List returns the active attributions of a content instance with
// profile names, primary first.
func (s *AuthorService) List(ctx context.Context, kind ContentKind, contentID ulid.ULID) ([]*AttributionRecord, error) {
	if _, err := s.authorizer.Resolver().OwnerOf(ctx, kind.Entity(), contentID); err != nil {
		return nil, err
	}
	records, err := s.attributions.ListActive(ctx, kind, contentID)
	if err != nil {
		return nil, oops.Code("ATTRIBUTION_LIST_FAILED").
			With("content_kind", string(kind)).
			With("content_id", contentID.String()).
			Wrap(err)
	}
	return records, nil
}

// Add credits a profile as an author of the content. The caller must be
// able to mutate the content and must own an active, authorable profile.
// Attributions added here are never primary; a reactivated attribution
// keeps whatever primary status it had before removal.
func (s *AuthorService) Add(ctx context.Context, kind ContentKind, contentID, callerID, profileID ulid.ULID) (rec *AttributionRecord, err error) {
	defer func() { recordOutcome(s.metrics, metricAttribution, err) }()

	if err := s.authorizer.requireCanMutate(ctx, kind.Entity(), contentID, callerID); err != nil {
		return nil, err
	}

	profile, err := authorableProfile(ctx, s.profiles, callerID, profileID)
	if err != nil {
		return nil, err
	}

	existing, err := s.attributions.FindByProfile(ctx, kind, contentID, profileID)
	switch {
	case err == nil && existing.Active():
		return nil, oops.Code("ATTRIBUTION_DUPLICATE").
			With("content_id", contentID.String()).
			With("profile_id", profileID.String()).
			Wrap(ErrConflict)
	case err == nil:
		reactivated, err := s.attributions.Reactivate(ctx, existing.ID)
		if err != nil {
			return nil, oops.Code("ATTRIBUTION_REACTIVATE_FAILED").With("id", existing.ID.String()).Wrap(err)
		}
		return &AttributionRecord{AuthorAttribution: *reactivated, ProfileName: profile.Name}, nil
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code("ATTRIBUTION_LOOKUP_FAILED").With("content_id", contentID.String()).Wrap(err)
	}

	a, err := NewAuthorAttribution(kind, contentID, profileID, false)
	if err != nil {
		return nil, err
	}
	if err := s.attributions.Create(ctx, a); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, oops.Code("ATTRIBUTION_CREATE_FAILED").With("id", a.ID.String()).Wrap(err)
	}
	return &AttributionRecord{AuthorAttribution: *a, ProfileName: profile.Name}, nil
}

// Remove soft-deletes an attribution. The primary attribution cannot be
// removed directly; transfer primary status first.
func (s *AuthorService) Remove(ctx context.Context, kind ContentKind, contentID, callerID, attributionID ulid.ULID) (err error) {
	defer func() { recordOutcome(s.metrics, metricAttribution, err) }()

	if err := s.authorizer.requireCanMutate(ctx, kind.Entity(), contentID, callerID); err != nil {
		return err
	}

	a, err := s.attributions.Get(ctx, attributionID)
	if err != nil {
		return err
	}
	if !a.Active() || a.ContentKind != kind || a.ContentID != contentID {
		return oops.Code("ATTRIBUTION_NOT_FOUND").
			With("id", attributionID.String()).
			With("content_id", contentID.String()).
			Wrap(ErrNotFound)
	}
	if a.IsPrimary {
		return oops.Code("ATTRIBUTION_PRIMARY_GUARD").
			With("id", attributionID.String()).
			Wrapf(ErrInvalidInput, "cannot remove primary author; transfer primary status first")
	}

	if err := s.attributions.SoftDelete(ctx, attributionID); err != nil {
		return oops.Code("ATTRIBUTION_REMOVE_FAILED").With("id", attributionID.String()).Wrap(err)
	}
	return nil
}

// TransferPrimary moves primary status to another active attribution of
// the same content, demoting the current primary in the same
// transaction. Transferring to the current primary is a no-op.
func (s *AuthorService) TransferPrimary(ctx context.Context, kind ContentKind, contentID, callerID, attributionID ulid.ULID) (err error) {
	defer func() { recordOutcome(s.metrics, metricAttribution, err) }()

	if err := s.authorizer.requireCanMutate(ctx, kind.Entity(), contentID, callerID); err != nil {
		return err
	}

	target, err := s.attributions.Get(ctx, attributionID)
	if err != nil {
		return err
	}
	if !target.Active() || target.ContentKind != kind || target.ContentID != contentID {
		return oops.Code("ATTRIBUTION_NOT_FOUND").
			With("id", attributionID.String()).
			With("content_id", contentID.String()).
			Wrap(ErrNotFound)
	}
	if target.IsPrimary {
		return nil
	}

	err = s.transactor.InTransaction(ctx, func(ctx context.Context) error {
		current, err := s.attributions.GetPrimary(ctx, kind, contentID)
		if err == nil {
			if err := s.attributions.SetPrimary(ctx, current.ID, false); err != nil {
				return err
			}
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		return s.attributions.SetPrimary(ctx, target.ID, true)
	})
	if err != nil {
		return oops.Code("ATTRIBUTION_TRANSFER_FAILED").
			With("id", attributionID.String()).
			With("content_id", contentID.String()).
			Wrap(err)
	}
	return nil
}

// authorableProfile fetches the profile and checks it may author content
// on the caller's behalf. Any failure is reported as invalid input, not
// as not-found, so callers cannot probe for other accounts' profiles.
// Shared with the content creation paths, which apply the same rule when
// setting the initial primary author.
func authorableProfile(ctx context.Context, profiles ProfileRepository, callerID, profileID ulid.ULID) (*Profile, error) {
	profile, err := profiles.Get(ctx, profileID)
	if errors.Is(err, ErrNotFound) {
		return nil, invalidAuthorError(profileID)
	}
	if err != nil {
		return nil, oops.Code("PROFILE_LOOKUP_FAILED").With("id", profileID.String()).Wrap(err)
	}
	if profile.AccountID != callerID || !profile.Kind.Authorable() {
		return nil, invalidAuthorError(profileID)
	}
	return profile, nil
}

func invalidAuthorError(profileID ulid.ULID) error {
	return oops.Code("ATTRIBUTION_PROFILE_INVALID").
		With("profile_id", profileID.String()).
		Wrapf(ErrInvalidInput, "author must be a character, kinship, or organization profile you own")
}
