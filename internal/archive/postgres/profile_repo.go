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

// ProfileRepository implements archive.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool poolIface
}

// NewProfileRepository creates a new PostgreSQL profile repository.
func NewProfileRepository(pool poolIface) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, account_id, kind, name, summary, parent_profile_id, published, created_at, updated_at, deleted_at`

// Get retrieves an active profile by ID.
func (r *ProfileRepository) Get(ctx context.Context, id ulid.ULID) (*archive.Profile, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	profile, err := scanProfileRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROFILE_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROFILE_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return profile, nil
}

// Create persists a new profile.
// Callers must validate the profile before calling this method.
func (r *ProfileRepository) Create(ctx context.Context, p *archive.Profile) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO profiles (id, account_id, kind, name, summary, parent_profile_id, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID.String(), p.AccountID.String(), string(p.Kind), p.Name, p.Summary,
		ulidToStringPtr(p.ParentProfileID), p.Published, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return oops.Code("PROFILE_NAME_TAKEN").With("name", p.Name).Wrap(archive.ErrConflict)
	}
	if err != nil {
		return oops.Code("PROFILE_CREATE_FAILED").With("id", p.ID.String()).Wrap(err)
	}
	return nil
}

// Update modifies an existing active profile. The parent is immutable
// and is deliberately absent from the statement.
func (r *ProfileRepository) Update(ctx context.Context, p *archive.Profile) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE profiles SET name = $2, summary = $3, published = $4, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, p.ID.String(), p.Name, p.Summary, p.Published)
	if isUniqueViolation(err) {
		return oops.Code("PROFILE_NAME_TAKEN").With("name", p.Name).Wrap(archive.ErrConflict)
	}
	if err != nil {
		return oops.Code("PROFILE_UPDATE_FAILED").With("id", p.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROFILE_NOT_FOUND").With("id", p.ID.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// SoftDelete tombstones an active profile.
func (r *ProfileRepository) SoftDelete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE profiles SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	if err != nil {
		return oops.Code("PROFILE_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROFILE_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// ListByAccount returns all active profiles owned by an account.
func (r *ProfileRepository) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*archive.Profile, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE account_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`, accountID.String())
	if err != nil {
		return nil, oops.Code("PROFILE_QUERY_FAILED").With("account_id", accountID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// ExistsByName reports whether the account has an active profile with
// the given name (case-insensitive).
func (r *ProfileRepository) ExistsByName(ctx context.Context, accountID ulid.ULID, name string) (bool, error) {
	var exists bool
	err := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM profiles
			WHERE account_id = $1 AND lower(name) = lower($2) AND deleted_at IS NULL
		)
	`, accountID.String(), name).Scan(&exists)
	if err != nil {
		return false, oops.Code("PROFILE_EXISTS_FAILED").With("name", name).Wrap(err)
	}
	return exists, nil
}

// OwnerOf returns the owning account of an active profile.
func (r *ProfileRepository) OwnerOf(ctx context.Context, id ulid.ULID) (ulid.ULID, error) {
	var accountIDStr string
	err := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT account_id FROM profiles WHERE id = $1 AND deleted_at IS NULL
	`, id.String()).Scan(&accountIDStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ulid.ULID{}, oops.Code("PROFILE_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.Code("PROFILE_OWNER_FAILED").With("id", id.String()).Wrap(err)
	}
	return parseULID(accountIDStr, "account_id")
}

// profileScanFields holds intermediate scan values for profile parsing.
type profileScanFields struct {
	idStr        string
	accountIDStr string
	kindStr      string
	parentIDStr  *string
}

func scanProfileRow(row pgx.Row) (*archive.Profile, error) {
	var p archive.Profile
	var f profileScanFields

	err := row.Scan(
		&f.idStr, &f.accountIDStr, &f.kindStr, &p.Name, &p.Summary,
		&f.parentIDStr, &p.Published, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("PROFILE_SCAN_FAILED").Wrap(err)
	}

	if err := parseProfileFromFields(&f, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseProfileFromFields(f *profileScanFields, p *archive.Profile) error {
	var err error
	p.ID, err = parseULID(f.idStr, "id")
	if err != nil {
		return err
	}
	p.AccountID, err = parseULID(f.accountIDStr, "account_id")
	if err != nil {
		return err
	}
	p.Kind = archive.ProfileKind(f.kindStr)
	p.ParentProfileID, err = parseOptionalULID(f.parentIDStr, "parent_profile_id")
	return err
}

func scanProfiles(rows pgx.Rows) ([]*archive.Profile, error) {
	profiles := make([]*archive.Profile, 0)
	for rows.Next() {
		var p archive.Profile
		var f profileScanFields

		if err := rows.Scan(
			&f.idStr, &f.accountIDStr, &f.kindStr, &p.Name, &p.Summary,
			&f.parentIDStr, &p.Published, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		); err != nil {
			return nil, oops.Code("PROFILE_SCAN_FAILED").Wrap(err)
		}

		if err := parseProfileFromFields(&f, &p); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("PROFILE_ITERATE_FAILED").Wrap(err)
	}
	return profiles, nil
}

// Compile-time interface check.
var _ archive.ProfileRepository = (*ProfileRepository)(nil)
