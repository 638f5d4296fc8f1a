// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorekeep/lorekeep/internal/archive"
)

// Services bundles the archive services wired to PostgreSQL repositories.
type Services struct {
	Profiles    *archive.ProfileService
	Editors     *archive.EditorService
	Authors     *archive.AuthorService
	Posts       *archive.PostService
	Collections *archive.CollectionService

	// Authorizer is the shared capability checker behind the services,
	// exposed so callers can attach a denial hook.
	Authorizer *archive.Authorizer
}

// NewServices wires repositories, authorization, and services onto pool.
func NewServices(pool *pgxpool.Pool) *Services {
	accounts := NewAccountRepository(pool)
	profiles := NewProfileRepository(pool)
	posts := NewPostRepository(pool)
	collections := NewCollectionRepository(pool)
	grants := NewGrantRepository(pool)
	attributions := NewAttributionRepository(pool)
	memberships := NewMembershipRepository(pool)
	transactor := NewTransactor(pool)

	resolver := archive.NewOwnerResolver(profiles, posts, collections)
	authorizer := archive.NewAuthorizer(resolver, grants)

	return &Services{
		Authorizer: authorizer,
		Profiles:   archive.NewProfileService(profiles, authorizer),
		Editors:    archive.NewEditorService(accounts, grants, resolver),
		Authors:    archive.NewAuthorService(profiles, attributions, authorizer, transactor),
		Posts:      archive.NewPostService(posts, profiles, attributions, authorizer, transactor),
		Collections: archive.NewCollectionService(archive.CollectionServiceConfig{
			Collections:  collections,
			Posts:        posts,
			Profiles:     profiles,
			Attributions: attributions,
			Memberships:  memberships,
			Authorizer:   authorizer,
			Transactor:   transactor,
		}),
	}
}

// SetMetrics attaches a mutation outcome sink to every service.
func (s *Services) SetMetrics(m archive.EngineMetrics) {
	s.Profiles.SetMetrics(m)
	s.Editors.SetMetrics(m)
	s.Authors.SetMetrics(m)
	s.Posts.SetMetrics(m)
	s.Collections.SetMetrics(m)
}
