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

// PostRepository implements archive.PostRepository using PostgreSQL.
type PostRepository struct {
	pool poolIface
}

// NewPostRepository creates a new PostgreSQL post repository.
func NewPostRepository(pool poolIface) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `id, account_id, kind, title, content, created_at, updated_at, deleted_at`

// Get retrieves an active post by ID.
func (r *PostRepository) Get(ctx context.Context, id ulid.ULID) (*archive.Post, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	post, err := scanPostRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return post, nil
}

// Create persists a new post.
// Callers must validate the post before calling this method.
func (r *PostRepository) Create(ctx context.Context, p *archive.Post) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO posts (id, account_id, kind, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID.String(), p.AccountID.String(), string(p.Kind), p.Title, p.Content, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return oops.Code("POST_CREATE_FAILED").With("id", p.ID.String()).Wrap(err)
	}
	return nil
}

// Update modifies an existing active post.
func (r *PostRepository) Update(ctx context.Context, p *archive.Post) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE posts SET title = $2, content = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, p.ID.String(), p.Title, p.Content)
	if err != nil {
		return oops.Code("POST_UPDATE_FAILED").With("id", p.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").With("id", p.ID.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// SoftDelete tombstones an active post.
func (r *PostRepository) SoftDelete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE posts SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	if err != nil {
		return oops.Code("POST_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// ListByAccount returns all active posts owned by an account.
func (r *PostRepository) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*archive.Post, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, `
		SELECT `+postColumns+`
		FROM posts WHERE account_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`, accountID.String())
	if err != nil {
		return nil, oops.Code("POST_QUERY_FAILED").With("account_id", accountID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// OwnerOf returns the owning account of an active post.
func (r *PostRepository) OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error) {
	var accountIDStr string
	err := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT account_id FROM posts WHERE id = $1 AND deleted_at IS NULL
	`, id.String()).Scan(&accountIDStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ulid.ULID{}, oops.Code("POST_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.Code("POST_OWNER_FAILED").With("id", id.String()).Wrap(err)
	}
	return parseULID(accountIDStr, "account_id")
}

// postScanFields holds intermediate scan values for post parsing.
type postScanFields struct {
	idStr        string
	accountIDStr string
	kindStr      string
}

func scanPostRow(row pgx.Row) (*archive.Post, error) {
	var p archive.Post
	var f postScanFields

	err := row.Scan(
		&f.idStr, &f.accountIDStr, &f.kindStr, &p.Title, &p.Content,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("POST_SCAN_FAILED").Wrap(err)
	}

	if err := parsePostFromFields(&f, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func parsePostFromFields(f *postScanFields, p *archive.Post) error {
	var err error
	p.ID, err = parseULID(f.idStr, "id")
	if err != nil {
		return err
	}
	p.AccountID, err = parseULID(f.accountIDStr, "account_id")
	if err != nil {
		return err
	}
	p.Kind = archive.PostKind(f.kindStr)
	return nil
}

func scanPosts(rows pgx.Rows) ([]*archive.Post, error) {
	posts := make([]*archive.Post, 0)
	for rows.Next() {
		var p archive.Post
		var f postScanFields

		if err := rows.Scan(
			&f.idStr, &f.accountIDStr, &f.kindStr, &p.Title, &p.Content,
			&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		); err != nil {
			return nil, oops.Code("POST_SCAN_FAILED").Wrap(err)
		}

		if err := parsePostFromFields(&f, &p); err != nil {
			return nil, err
		}
		posts = append(posts, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_ITERATE_FAILED").Wrap(err)
	}
	return posts, nil
}

// Compile-time interface check.
var _ archive.PostRepository = (*PostRepository)(nil)
