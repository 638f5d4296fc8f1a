// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive_test

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/archive"
	"github.com/lorekeep/lorekeep/internal/archive/archivetest"
)

// fixture wires every service against the in-memory fakes, mirroring the
// production service graph.
type fixture struct {
	store       *archivetest.Store
	resolver    *archive.OwnerResolver
	authorizer  *archive.Authorizer
	profiles    *archive.ProfileService
	editors     *archive.EditorService
	authors     *archive.AuthorService
	posts       *archive.PostService
	collections *archive.CollectionService
}

func newFixture() *fixture {
	store := archivetest.NewStore()
	accounts, profiles, posts, collections, grants, attributions, memberships := store.Repos()
	transactor := archivetest.Transactor{}

	resolver := archive.NewOwnerResolver(profiles, posts, collections)
	authorizer := archive.NewAuthorizer(resolver, grants)

	return &fixture{
		store:      store,
		resolver:   resolver,
		authorizer: authorizer,
		profiles:   archive.NewProfileService(profiles, authorizer),
		editors:    archive.NewEditorService(accounts, grants, resolver),
		authors:    archive.NewAuthorService(profiles, attributions, authorizer, transactor),
		posts:      archive.NewPostService(posts, profiles, attributions, authorizer, transactor),
		collections: archive.NewCollectionService(archive.CollectionServiceConfig{
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

func (f *fixture) account(username string) *archive.Account {
	return f.store.SeedAccount(username)
}

func (f *fixture) character(t *testing.T, accountID ulid.ULID, name string) *archive.Profile {
	t.Helper()
	p, err := f.profiles.Create(context.Background(), accountID, archive.CreateProfileInput{
		Kind: archive.ProfileCharacter,
		Name: name,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) post(t *testing.T, accountID ulid.ULID, kind archive.PostKind, title string) *archive.Post {
	t.Helper()
	p, err := f.posts.Create(context.Background(), accountID, archive.CreatePostInput{
		Kind:  kind,
		Title: title,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) collection(t *testing.T, accountID ulid.ULID, kind archive.CollectionKind, title string) *archive.Collection {
	t.Helper()
	c, err := f.collections.Create(context.Background(), accountID, archive.CreateCollectionInput{
		Kind:  kind,
		Title: title,
	})
	require.NoError(t, err)
	return c
}

func ulidPtr(id ulid.ULID) *ulid.ULID {
	return &id
}
