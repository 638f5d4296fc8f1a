// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/archive"
	"github.com/lorekeep/lorekeep/internal/archive/postgres"
)

func newTestPost(accountID ulid.ULID, title string) *archive.Post {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &archive.Post{
		ID:        ulid.Make(),
		AccountID: accountID,
		Kind:      archive.PostWriting,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPostRepository(testPool)
	accountID := createTestAccount(ctx, t, "post_crud_owner")

	t.Run("create and get with content", func(t *testing.T) {
		p := newTestPost(accountID, "First Light")
		p.Content = json.RawMessage(`{"body":"it begins"}`)

		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, archive.PostWriting, got.Kind)
		assert.Equal(t, "First Light", got.Title)
		assert.JSONEq(t, `{"body":"it begins"}`, string(got.Content))
	})

	t.Run("nil content round-trips", func(t *testing.T) {
		p := newTestPost(accountID, "No Content")
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Content)
	})

	t.Run("update", func(t *testing.T) {
		p := newTestPost(accountID, "Draft")
		require.NoError(t, repo.Create(ctx, p))

		p.Title = "Final"
		p.Content = json.RawMessage(`{"body":"revised"}`)
		require.NoError(t, repo.Update(ctx, p))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Final", got.Title)
		assert.JSONEq(t, `{"body":"revised"}`, string(got.Content))
	})

	t.Run("update missing returns ErrNotFound", func(t *testing.T) {
		p := newTestPost(accountID, "Never Stored")
		err := repo.Update(ctx, p)
		assert.ErrorIs(t, err, archive.ErrNotFound)
	})

	t.Run("soft delete hides the row", func(t *testing.T) {
		p := newTestPost(accountID, "Doomed")
		require.NoError(t, repo.Create(ctx, p))
		require.NoError(t, repo.SoftDelete(ctx, p.ID))

		_, err := repo.Get(ctx, p.ID)
		assert.ErrorIs(t, err, archive.ErrNotFound)
	})
}

func TestPostRepository_ListByAccount(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPostRepository(testPool)
	accountID := createTestAccount(ctx, t, "post_list_owner")

	first := newTestPost(accountID, "List First")
	second := newTestPost(accountID, "List Second")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	for _, p := range []*archive.Post{first, second} {
		require.NoError(t, repo.Create(ctx, p))
	}

	posts, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, second.ID, posts[1].ID)
}

func TestPostRepository_OwnerOf(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPostRepository(testPool)
	accountID := createTestAccount(ctx, t, "post_owner_owner")

	p := newTestPost(accountID, "Owned")
	require.NoError(t, repo.Create(ctx, p))

	owner, err := repo.OwnerOf(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, accountID, owner)

	_, err = repo.OwnerOf(ctx, ulid.Make())
	assert.ErrorIs(t, err, archive.ErrNotFound)
}
