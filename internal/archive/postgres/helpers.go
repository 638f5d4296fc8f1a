// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// poolIface abstracts query execution over *pgxpool.Pool, pgx.Tx, and
// pgxmock.PgxPoolIface so repositories can run inside or outside of
// transactions and be unit-tested without a database.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txKey is the context key under which Transactor stores the active tx.
type txKey struct{}

// querierFrom returns the transaction stored in ctx if present,
// otherwise the repository's pool. Repository methods route every
// statement through this so multi-step writes stay atomic.
func querierFrom(ctx context.Context, pool poolIface) poolIface {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// ulidToStringPtr converts a ULID pointer to a string pointer for SQL
// parameters. Returns nil if the input is nil.
func ulidToStringPtr(id *ulid.ULID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// parseULID parses a required ULID column, wrapping parse errors with
// the field name for context.
func parseULID(s, fieldName string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.With("operation", "parse "+fieldName).With(fieldName, s).Wrap(err)
	}
	return id, nil
}

// parseOptionalULID parses an optional ULID string pointer into a ULID
// pointer. Returns nil if the input is nil.
func parseOptionalULID(strPtr *string, fieldName string) (*ulid.ULID, error) {
	if strPtr == nil {
		return nil, nil
	}
	id, err := parseULID(*strPtr, fieldName)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
