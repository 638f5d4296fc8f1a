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

// AttributionRepository implements archive.AttributionRepository using PostgreSQL.
type AttributionRepository struct {
	pool poolIface
}

// NewAttributionRepository creates a new PostgreSQL attribution repository.
func NewAttributionRepository(pool poolIface) *AttributionRepository {
	return &AttributionRepository{pool: pool}
}

const attributionColumns = `id, content_kind, content_id, profile_id, is_primary, created_at, updated_at, deleted_at`

// Get retrieves an attribution by ID, tombstoned or not.
func (r *AttributionRepository) Get(ctx context.Context, id ulid.ULID) (*archive.AuthorAttribution, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+attributionColumns+`
		FROM author_attributions WHERE id = $1
	`, id.String())
	a, err := scanAttributionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ATTRIBUTION_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ATTRIBUTION_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return a, nil
}

// ListActive returns active attributions for a content instance with
// profile names, primary first, then by creation time.
func (r *AttributionRepository) ListActive(ctx context.Context, kind archive.ContentKind, contentID ulid.ULID) ([]*archive.AttributionRecord, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, `
		SELECT a.id, a.content_kind, a.content_id, a.profile_id, a.is_primary,
		       a.created_at, a.updated_at, a.deleted_at, p.name
		FROM author_attributions a
		JOIN profiles p ON p.id = a.profile_id
		WHERE a.content_kind = $1 AND a.content_id = $2 AND a.deleted_at IS NULL
		ORDER BY a.is_primary DESC, a.created_at
	`, string(kind), contentID.String())
	if err != nil {
		return nil, oops.Code("ATTRIBUTION_QUERY_FAILED").With("content_id", contentID.String()).Wrap(err)
	}
	defer rows.Close()

	records := make([]*archive.AttributionRecord, 0)
	for rows.Next() {
		var rec archive.AttributionRecord
		var f attributionScanFields

		if err := rows.Scan(
			&f.idStr, &f.contentKindStr, &f.contentIDStr, &f.profileIDStr, &rec.IsPrimary,
			&rec.CreatedAt, &rec.UpdatedAt, &rec.DeletedAt, &rec.ProfileName,
		); err != nil {
			return nil, oops.Code("ATTRIBUTION_SCAN_FAILED").Wrap(err)
		}

		if err := parseAttributionFromFields(&f, &rec.AuthorAttribution); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("ATTRIBUTION_ITERATE_FAILED").Wrap(err)
	}
	return records, nil
}

// FindByProfile returns the attribution for (content, profile) whether
// or not it is tombstoned.
func (r *AttributionRepository) FindByProfile(ctx context.Context, kind archive.ContentKind, contentID, profileID ulid.ULID) (*archive.AuthorAttribution, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+attributionColumns+`
		FROM author_attributions
		WHERE content_kind = $1 AND content_id = $2 AND profile_id = $3
		ORDER BY created_at DESC
		LIMIT 1
	`, string(kind), contentID.String(), profileID.String())
	a, err := scanAttributionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ATTRIBUTION_NOT_FOUND").
			With("content_id", contentID.String()).
			With("profile_id", profileID.String()).
			Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ATTRIBUTION_GET_FAILED").With("content_id", contentID.String()).Wrap(err)
	}
	return a, nil
}

// GetPrimary returns the active primary attribution of a content instance.
func (r *AttributionRepository) GetPrimary(ctx context.Context, kind archive.ContentKind, contentID ulid.ULID) (*archive.AuthorAttribution, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+attributionColumns+`
		FROM author_attributions
		WHERE content_kind = $1 AND content_id = $2 AND is_primary AND deleted_at IS NULL
	`, string(kind), contentID.String())
	a, err := scanAttributionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ATTRIBUTION_NOT_FOUND").With("content_id", contentID.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ATTRIBUTION_GET_FAILED").With("content_id", contentID.String()).Wrap(err)
	}
	return a, nil
}

// Create persists a new attribution. An active duplicate for the same
// pair is reported as archive.ErrConflict via the partial unique index.
func (r *AttributionRepository) Create(ctx context.Context, a *archive.AuthorAttribution) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO author_attributions (id, content_kind, content_id, profile_id, is_primary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID.String(), string(a.ContentKind), a.ContentID.String(), a.ProfileID.String(),
		a.IsPrimary, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return oops.Code("ATTRIBUTION_DUPLICATE").
			With("content_id", a.ContentID.String()).
			With("profile_id", a.ProfileID.String()).
			Wrap(archive.ErrConflict)
	}
	if err != nil {
		return oops.Code("ATTRIBUTION_CREATE_FAILED").With("id", a.ID.String()).Wrap(err)
	}
	return nil
}

// Reactivate clears the tombstone on an attribution, preserving its
// prior primary flag, and returns the updated row.
func (r *AttributionRepository) Reactivate(ctx context.Context, id ulid.ULID) (*archive.AuthorAttribution, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		UPDATE author_attributions
		SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING `+attributionColumns+`
	`, id.String())
	a, err := scanAttributionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ATTRIBUTION_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ATTRIBUTION_REACTIVATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return a, nil
}

// SetPrimary updates the primary flag of an active attribution.
func (r *AttributionRepository) SetPrimary(ctx context.Context, id ulid.ULID, isPrimary bool) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE author_attributions SET is_primary = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String(), isPrimary)
	if err != nil {
		return oops.Code("ATTRIBUTION_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ATTRIBUTION_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// SoftDelete tombstones an active attribution.
func (r *AttributionRepository) SoftDelete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE author_attributions SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	if err != nil {
		return oops.Code("ATTRIBUTION_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ATTRIBUTION_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// attributionScanFields holds intermediate scan values for attribution parsing.
type attributionScanFields struct {
	idStr          string
	contentKindStr string
	contentIDStr   string
	profileIDStr   string
}

func scanAttributionRow(row pgx.Row) (*archive.AuthorAttribution, error) {
	var a archive.AuthorAttribution
	var f attributionScanFields

	err := row.Scan(
		&f.idStr, &f.contentKindStr, &f.contentIDStr, &f.profileIDStr, &a.IsPrimary,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("ATTRIBUTION_SCAN_FAILED").Wrap(err)
	}

	if err := parseAttributionFromFields(&f, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func parseAttributionFromFields(f *attributionScanFields, a *archive.AuthorAttribution) error {
	var err error
	a.ID, err = parseULID(f.idStr, "id")
	if err != nil {
		return err
	}
	a.ContentKind = archive.ContentKind(f.contentKindStr)
	a.ContentID, err = parseULID(f.contentIDStr, "content_id")
	if err != nil {
		return err
	}
	a.ProfileID, err = parseULID(f.profileIDStr, "profile_id")
	return err
}

// Compile-time interface check.
var _ archive.AttributionRepository = (*AttributionRepository)(nil)
