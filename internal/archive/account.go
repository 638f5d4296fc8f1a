// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package archive

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Account represents a registered user account. The engine only consumes
// accounts as owner and grantee references; registration and credentials
// live elsewhere.
type Account struct {
	ID        ulid.ULID
	Username  string
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Active reports whether the account has not been soft-deleted.
func (a *Account) Active() bool {
	return a.DeletedAt == nil
}
