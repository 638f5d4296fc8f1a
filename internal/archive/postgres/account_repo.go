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

// AccountRepository implements archive.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool poolIface
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(pool poolIface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByID retrieves an active account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id ulid.ULID) (*archive.Account, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT id, username, created_at, deleted_at
		FROM accounts WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	account, err := scanAccountRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return account, nil
}

// GetByUsername retrieves an active account by username (case-insensitive).
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*archive.Account, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT id, username, created_at, deleted_at
		FROM accounts WHERE lower(username) = lower($1) AND deleted_at IS NULL
	`, username)
	account, err := scanAccountRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("username", username).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").With("username", username).Wrap(err)
	}
	return account, nil
}

func scanAccountRow(row pgx.Row) (*archive.Account, error) {
	var account archive.Account
	var idStr string

	err := row.Scan(&idStr, &account.Username, &account.CreatedAt, &account.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").Wrap(err)
	}

	account.ID, err = parseULID(idStr, "id")
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Compile-time interface check.
var _ archive.AccountRepository = (*AccountRepository)(nil)
