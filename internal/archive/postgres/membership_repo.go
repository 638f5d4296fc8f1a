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

// MembershipRepository implements archive.MembershipRepository using PostgreSQL.
type MembershipRepository struct {
	pool poolIface
}

// NewMembershipRepository creates a new PostgreSQL membership repository.
func NewMembershipRepository(pool poolIface) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

const membershipColumns = `id, collection_id, post_id, sort_order, created_at, updated_at, deleted_at`

// Get retrieves a membership by ID, tombstoned or not.
func (r *MembershipRepository) Get(ctx context.Context, id ulid.ULID) (*archive.CollectionPost, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM collection_posts WHERE id = $1
	`, id.String())
	m, err := scanMembershipRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MEMBERSHIP_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MEMBERSHIP_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return m, nil
}

// ListActive returns active memberships of a collection ordered by sort
// order ascending.
func (r *MembershipRepository) ListActive(ctx context.Context, collectionID ulid.ULID) ([]*archive.CollectionPost, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, `
		SELECT `+membershipColumns+`
		FROM collection_posts
		WHERE collection_id = $1 AND deleted_at IS NULL
		ORDER BY sort_order, created_at
	`, collectionID.String())
	if err != nil {
		return nil, oops.Code("MEMBERSHIP_QUERY_FAILED").With("collection_id", collectionID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

// ListPosts returns the active posts of a collection in membership sort
// order. Posts that were themselves soft-deleted are excluded.
func (r *MembershipRepository) ListPosts(ctx context.Context, collectionID ulid.ULID) ([]*archive.Post, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, `
		SELECT p.id, p.account_id, p.kind, p.title, p.content, p.created_at, p.updated_at, p.deleted_at
		FROM collection_posts m
		JOIN posts p ON p.id = m.post_id AND p.deleted_at IS NULL
		WHERE m.collection_id = $1 AND m.deleted_at IS NULL
		ORDER BY m.sort_order, m.created_at
	`, collectionID.String())
	if err != nil {
		return nil, oops.Code("MEMBERSHIP_QUERY_FAILED").With("collection_id", collectionID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// FindByPost returns the membership for (collection, post) whether or
// not it is tombstoned.
func (r *MembershipRepository) FindByPost(ctx context.Context, collectionID, postID ulid.ULID) (*archive.CollectionPost, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM collection_posts
		WHERE collection_id = $1 AND post_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, collectionID.String(), postID.String())
	m, err := scanMembershipRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MEMBERSHIP_NOT_FOUND").
			With("collection_id", collectionID.String()).
			With("post_id", postID.String()).
			Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MEMBERSHIP_GET_FAILED").With("collection_id", collectionID.String()).Wrap(err)
	}
	return m, nil
}

// CountActive returns the number of active memberships in a collection.
func (r *MembershipRepository) CountActive(ctx context.Context, collectionID ulid.ULID) (int, error) {
	var count int
	err := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT count(*) FROM collection_posts
		WHERE collection_id = $1 AND deleted_at IS NULL
	`, collectionID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("MEMBERSHIP_COUNT_FAILED").With("collection_id", collectionID.String()).Wrap(err)
	}
	return count, nil
}

// Create persists a new membership. An active duplicate for the same
// pair is reported as archive.ErrConflict via the partial unique index.
func (r *MembershipRepository) Create(ctx context.Context, m *archive.CollectionPost) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO collection_posts (id, collection_id, post_id, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID.String(), m.CollectionID.String(), m.PostID.String(), m.SortOrder, m.CreatedAt, m.UpdatedAt)
	if isUniqueViolation(err) {
		return oops.Code("MEMBERSHIP_DUPLICATE").
			With("collection_id", m.CollectionID.String()).
			With("post_id", m.PostID.String()).
			Wrap(archive.ErrConflict)
	}
	if err != nil {
		return oops.Code("MEMBERSHIP_CREATE_FAILED").With("id", m.ID.String()).Wrap(err)
	}
	return nil
}

// Reactivate clears the tombstone on a membership and assigns it the
// given sort order, returning the updated row.
func (r *MembershipRepository) Reactivate(ctx context.Context, id ulid.ULID, sortOrder int) (*archive.CollectionPost, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		UPDATE collection_posts
		SET deleted_at = NULL, sort_order = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING `+membershipColumns+`
	`, id.String(), sortOrder)
	m, err := scanMembershipRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MEMBERSHIP_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MEMBERSHIP_REACTIVATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return m, nil
}

// UpdateSortOrder sets the sort order of an active membership.
func (r *MembershipRepository) UpdateSortOrder(ctx context.Context, id ulid.ULID, sortOrder int) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE collection_posts SET sort_order = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String(), sortOrder)
	if err != nil {
		return oops.Code("MEMBERSHIP_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("MEMBERSHIP_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// SoftDelete tombstones an active membership. The sort orders of the
// remaining memberships are left untouched.
func (r *MembershipRepository) SoftDelete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE collection_posts SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	if err != nil {
		return oops.Code("MEMBERSHIP_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("MEMBERSHIP_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// membershipScanFields holds intermediate scan values for membership parsing.
type membershipScanFields struct {
	idStr           string
	collectionIDStr string
	postIDStr       string
}

func scanMembershipRow(row pgx.Row) (*archive.CollectionPost, error) {
	var m archive.CollectionPost
	var f membershipScanFields

	err := row.Scan(
		&f.idStr, &f.collectionIDStr, &f.postIDStr, &m.SortOrder,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("MEMBERSHIP_SCAN_FAILED").Wrap(err)
	}

	if err := parseMembershipFromFields(&f, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func parseMembershipFromFields(f *membershipScanFields, m *archive.CollectionPost) error {
	var err error
	m.ID, err = parseULID(f.idStr, "id")
	if err != nil {
		return err
	}
	m.CollectionID, err = parseULID(f.collectionIDStr, "collection_id")
	if err != nil {
		return err
	}
	m.PostID, err = parseULID(f.postIDStr, "post_id")
	return err
}

func scanMemberships(rows pgx.Rows) ([]*archive.CollectionPost, error) {
	memberships := make([]*archive.CollectionPost, 0)
	for rows.Next() {
		var m archive.CollectionPost
		var f membershipScanFields

		if err := rows.Scan(
			&f.idStr, &f.collectionIDStr, &f.postIDStr, &m.SortOrder,
			&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
		); err != nil {
			return nil, oops.Code("MEMBERSHIP_SCAN_FAILED").Wrap(err)
		}

		if err := parseMembershipFromFields(&f, &m); err != nil {
			return nil, err
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("MEMBERSHIP_ITERATE_FAILED").Wrap(err)
	}
	return memberships, nil
}

// Compile-time interface check.
var _ archive.MembershipRepository = (*MembershipRepository)(nil)
