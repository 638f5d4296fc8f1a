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

// GrantRepository implements archive.GrantRepository using PostgreSQL.
type GrantRepository struct {
	pool poolIface
}

// NewGrantRepository creates a new PostgreSQL grant repository.
func NewGrantRepository(pool poolIface) *GrantRepository {
	return &GrantRepository{pool: pool}
}

const grantColumns = `id, entity_kind, entity_id, grantee_id, granted_by_id, created_at, updated_at, deleted_at`

// Get retrieves a grant by ID, tombstoned or not.
func (r *GrantRepository) Get(ctx context.Context, id ulid.ULID) (*archive.EditorGrant, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+grantColumns+`
		FROM editor_grants WHERE id = $1
	`, id.String())
	g, err := scanGrantRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("GRANT_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("GRANT_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return g, nil
}

// ListActive returns active grants for an entity with grantee and
// grantor usernames, ordered by grant creation time ascending.
func (r *GrantRepository) ListActive(ctx context.Context, kind archive.EntityKind, entityID ulid.ULID) ([]*archive.EditorGrantRecord, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, `
		SELECT g.id, g.entity_kind, g.entity_id, g.grantee_id, g.granted_by_id,
		       g.created_at, g.updated_at, g.deleted_at,
		       grantee.username, grantor.username
		FROM editor_grants g
		JOIN accounts grantee ON grantee.id = g.grantee_id
		JOIN accounts grantor ON grantor.id = g.granted_by_id
		WHERE g.entity_kind = $1 AND g.entity_id = $2 AND g.deleted_at IS NULL
		ORDER BY g.created_at
	`, string(kind), entityID.String())
	if err != nil {
		return nil, oops.Code("GRANT_QUERY_FAILED").With("entity_id", entityID.String()).Wrap(err)
	}
	defer rows.Close()

	records := make([]*archive.EditorGrantRecord, 0)
	for rows.Next() {
		var rec archive.EditorGrantRecord
		var f grantScanFields

		if err := rows.Scan(
			&f.idStr, &f.entityKindStr, &f.entityIDStr, &f.granteeIDStr, &f.grantedByIDStr,
			&rec.CreatedAt, &rec.UpdatedAt, &rec.DeletedAt,
			&rec.GranteeUsername, &rec.GrantedByUsername,
		); err != nil {
			return nil, oops.Code("GRANT_SCAN_FAILED").Wrap(err)
		}

		if err := parseGrantFromFields(&f, &rec.EditorGrant); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("GRANT_ITERATE_FAILED").Wrap(err)
	}
	return records, nil
}

// FindByGrantee returns the grant for (entity, grantee) whether or not
// it is tombstoned.
func (r *GrantRepository) FindByGrantee(ctx context.Context, kind archive.EntityKind, entityID, granteeID ulid.ULID) (*archive.EditorGrant, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT `+grantColumns+`
		FROM editor_grants
		WHERE entity_kind = $1 AND entity_id = $2 AND grantee_id = $3
		ORDER BY created_at DESC
		LIMIT 1
	`, string(kind), entityID.String(), granteeID.String())
	g, err := scanGrantRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("GRANT_NOT_FOUND").
			With("entity_id", entityID.String()).
			With("grantee_id", granteeID.String()).
			Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("GRANT_GET_FAILED").With("entity_id", entityID.String()).Wrap(err)
	}
	return g, nil
}

// ActiveExists reports whether an active grant exists for the pair.
func (r *GrantRepository) ActiveExists(ctx context.Context, kind archive.EntityKind, entityID, granteeID ulid.ULID) (bool, error) {
	var exists bool
	err := querierFrom(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM editor_grants
			WHERE entity_kind = $1 AND entity_id = $2 AND grantee_id = $3 AND deleted_at IS NULL
		)
	`, string(kind), entityID.String(), granteeID.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("GRANT_EXISTS_FAILED").With("entity_id", entityID.String()).Wrap(err)
	}
	return exists, nil
}

// Create persists a new grant. An active duplicate for the same pair is
// reported as archive.ErrConflict via the partial unique index.
func (r *GrantRepository) Create(ctx context.Context, g *archive.EditorGrant) error {
	_, err := querierFrom(ctx, r.pool).Exec(ctx, `
		INSERT INTO editor_grants (id, entity_kind, entity_id, grantee_id, granted_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, g.ID.String(), string(g.EntityKind), g.EntityID.String(), g.GranteeID.String(),
		g.GrantedByID.String(), g.CreatedAt, g.UpdatedAt)
	if isUniqueViolation(err) {
		return oops.Code("GRANT_DUPLICATE").
			With("entity_id", g.EntityID.String()).
			With("grantee_id", g.GranteeID.String()).
			Wrap(archive.ErrConflict)
	}
	if err != nil {
		return oops.Code("GRANT_CREATE_FAILED").With("id", g.ID.String()).Wrap(err)
	}
	return nil
}

// Reactivate clears the tombstone on a grant, refreshing the grantor and
// timestamps while keeping the grant ID, and returns the updated row.
func (r *GrantRepository) Reactivate(ctx context.Context, id, grantedByID ulid.ULID) (*archive.EditorGrant, error) {
	row := querierFrom(ctx, r.pool).QueryRow(ctx, `
		UPDATE editor_grants
		SET deleted_at = NULL, granted_by_id = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING `+grantColumns+`
	`, id.String(), grantedByID.String())
	g, err := scanGrantRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("GRANT_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("GRANT_REACTIVATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return g, nil
}

// SoftDelete tombstones an active grant.
func (r *GrantRepository) SoftDelete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFrom(ctx, r.pool).Exec(ctx, `
		UPDATE editor_grants SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id.String())
	if err != nil {
		return oops.Code("GRANT_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("GRANT_NOT_FOUND").With("id", id.String()).Wrap(archive.ErrNotFound)
	}
	return nil
}

// grantScanFields holds intermediate scan values for grant parsing.
type grantScanFields struct {
	idStr          string
	entityKindStr  string
	entityIDStr    string
	granteeIDStr   string
	grantedByIDStr string
}

func scanGrantRow(row pgx.Row) (*archive.EditorGrant, error) {
	var g archive.EditorGrant
	var f grantScanFields

	err := row.Scan(
		&f.idStr, &f.entityKindStr, &f.entityIDStr, &f.granteeIDStr, &f.grantedByIDStr,
		&g.CreatedAt, &g.UpdatedAt, &g.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("GRANT_SCAN_FAILED").Wrap(err)
	}

	if err := parseGrantFromFields(&f, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func parseGrantFromFields(f *grantScanFields, g *archive.EditorGrant) error {
	var err error
	g.ID, err = parseULID(f.idStr, "id")
	if err != nil {
		return err
	}
	g.EntityKind = archive.EntityKind(f.entityKindStr)
	g.EntityID, err = parseULID(f.entityIDStr, "entity_id")
	if err != nil {
		return err
	}
	g.GranteeID, err = parseULID(f.granteeIDStr, "grantee_id")
	if err != nil {
		return err
	}
	g.GrantedByID, err = parseULID(f.grantedByIDStr, "granted_by_id")
	return err
}

// Compile-time interface check.
var _ archive.GrantRepository = (*GrantRepository)(nil)
