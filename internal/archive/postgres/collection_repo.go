// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/lorekeep/lorekeep/internal/archive"
)

// CollectionRepository implements archive.CollectionRepository using PostgreSQL.
type CollectionRepository struct {
	pool poolIface
}

// NewCollectionRepository creates a new PostgreSQL collection repository.
func NewCollectionRepository(pool poolIface) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

const collectionColumns = `id, account_id, kind, title, description, content, allowed_post_kinds, created_at, updated_at, deleted_at`

// Get retrieves an active collection by ID.
func (r *CollectionRepository) Get(ctx context.Context, id ulid.ULID) (*archive.Collection, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+collectionColumns+`
		FROM collections WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	collection, err := scanCollectionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("COLLECTION_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("COLLECTION_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return collection, nil
}

// Create persists a new collection. A nil allowed-post-kinds set is
// stored as NULL, meaning any kind is accepted.
func (r *CollectionRepository) Create(ctx context.Context, c *archive.Collection) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO collections (id, account_id, kind, title, description, content, allowed_post_kinds, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID.String(), c.AccountID.String(), string(c.Kind), c.Title, c.Description, c.Content,
		postKindsToStrings(c.AllowedPostKinds), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return oops.Code("COLLECTION_CREATE_FAILED").With("id", c.ID.String()).Wrap(err)
	}
	return nil
}

// Update modifies an existing active collection. The kind and allowed
// post kinds are fixed at creation and absent from the statement.
func (r *CollectionRepository) Update(ctx context.Context, c *archive.Collection) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE collections SET title = $2, description = $3, content = $4, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, c.ID.String(), c.Title, c.Description, c.Content)
	if err != nil {
		return oops.Code("COLLECTION_UPDATE_FAILED").With("id", c.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("COLLECTION_NOT_FOUND").With("id", c.ID.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// SoftDelete tombstones an active collection.
func (r *CollectionRepository) SoftDelete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE collections SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	if err != nil {
		return oops.Code("COLLECTION_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("COLLECTION_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// ListByAccount returns all active collections owned by an account.
func (r *CollectionRepository) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*archive.Collection, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, `
		SELECT `+collectionColumns+`
		FROM collections WHERE account_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`, accountID.String())
	if err != nil {
		return nil, oops.Code("COLLECTION_QUERY_FAILED").With("account_id", accountID.String()).Wrap(err)
	}
	defer rows.Close()

	collections := make([]*archive.Collection, 0)
	for rows.Next() {
		c, err := scanCollectionValues(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("COLLECTION_ITERATE_FAILED").Wrap(err)
	}
	return collections, nil
}

// OwnerOf returns the owning account of an active collection.
func (r *CollectionRepository) OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error) {
	var accountIDStr string
	err := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT account_id FROM collections WHERE id = $1 AND deleted_at IS NULL
	`, id.String()).Scan(&accountIDStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ulid.ULID{}, oops.Code("COLLECTION_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.Code("COLLECTION_OWNER_FAILED").With("id", id.String()).Wrap(err)
	}
	return parseULID(accountIDStr, "account_id")
}

// postKindsToStrings converts the allowed-kind set for array storage.
// Nil stays nil so "any" round-trips as SQL NULL.
func postKindsToStrings(kinds []archive.PostKind) []string {
	if kinds == nil {
		return nil
	}
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func stringsToPostKinds(strs []string) []archive.PostKind {
	if strs == nil {
		return nil
	}
	out := make([]archive.PostKind, len(strs))
	for i, s := range strs {
		out[i] = archive.PostKind(s)
	}
	return out
}

func scanCollectionRow(row pgx.Row) (*archive.Collection, error) {
	return scanCollectionValues(row)
}

func scanCollectionValues(row pgx.Row) (*archive.Collection, error) {
	var c archive.Collection
	var idStr, accountIDStr, kindStr string
	var allowed []string

	err := row.Scan(
		&idStr, &accountIDStr, &kindStr, &c.Title, &c.Description, &c.Content,
		&allowed, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("COLLECTION_SCAN_FAILED").Wrap(err)
	}

	c.ID, err = parseULID(idStr, "id")
	if err != nil {
		return nil, err
	}
	c.AccountID, err = parseULID(accountIDStr, "account_id")
	if err != nil {
		return nil, err
	}
	c.Kind = archive.CollectionKind(kindStr)
	c.AllowedPostKinds = stringsToPostKinds(allowed)
	return &c, nil
}

// Compile-time interface check.
var _ archive.CollectionRepository = (*CollectionRepository)(nil)
