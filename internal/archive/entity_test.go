// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/internal/archive"
)

func TestNewProfile(t *testing.T) {
	accountID := ulid.Make()

	p, err := archive.NewProfile(accountID, archive.ProfileCharacter, "Aria")
	require.NoError(t, err)

	assert.False(t, p.ID.IsZero())
	assert.Equal(t, accountID, p.AccountID)
	assert.True(t, p.Active())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	_, err = archive.NewProfile(accountID, archive.ProfileKind("deity"), "Aria")
	assert.ErrorIs(t, err, archive.ErrInvalidInput)

	_, err = archive.NewProfile(ulid.ULID{}, archive.ProfileCharacter, "Aria")
	assert.ErrorIs(t, err, archive.ErrInvalidInput)
}

func TestNewEditorGrant(t *testing.T) {
	entityID, granteeID, grantedByID := ulid.Make(), ulid.Make(), ulid.Make()

	g, err := archive.NewEditorGrant(archive.EntityPost, entityID, granteeID, grantedByID)
	require.NoError(t, err)
	assert.True(t, g.Active())
	assert.Equal(t, granteeID, g.GranteeID)

	_, err = archive.NewEditorGrant(archive.EntityKind("comment"), entityID, granteeID, grantedByID)
	assert.ErrorIs(t, err, archive.ErrInvalidInput)

	_, err = archive.NewEditorGrant(archive.EntityPost, entityID, ulid.ULID{}, grantedByID)
	assert.ErrorIs(t, err, archive.ErrInvalidInput)
}

func TestNewAuthorAttribution(t *testing.T) {
	contentID, profileID := ulid.Make(), ulid.Make()

	a, err := archive.NewAuthorAttribution(archive.ContentCollection, contentID, profileID, true)
	require.NoError(t, err)
	assert.True(t, a.IsPrimary)
	assert.True(t, a.Active())

	_, err = archive.NewAuthorAttribution(archive.ContentKind("profile"), contentID, profileID, false)
	assert.ErrorIs(t, err, archive.ErrInvalidInput)
}

func TestNewCollectionPost(t *testing.T) {
	collectionID, postID := ulid.Make(), ulid.Make()

	m, err := archive.NewCollectionPost(collectionID, postID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.SortOrder)

	_, err = archive.NewCollectionPost(collectionID, postID, -1)
	assert.ErrorIs(t, err, archive.ErrInvalidInput)
}

func TestCollectionAccepts(t *testing.T) {
	c := &archive.Collection{AllowedPostKinds: nil}
	assert.True(t, c.Accepts(archive.PostWriting))

	c.AllowedPostKinds = []archive.PostKind{archive.PostArt}
	assert.True(t, c.Accepts(archive.PostArt))
	assert.False(t, c.Accepts(archive.PostWriting))
}

func TestActive(t *testing.T) {
	now := time.Now().UTC()

	p := &archive.Post{}
	assert.True(t, p.Active())
	p.DeletedAt = &now
	assert.False(t, p.Active())

	a := &archive.Account{}
	assert.True(t, a.Active())
	a.DeletedAt = &now
	assert.False(t, a.Active())
}
