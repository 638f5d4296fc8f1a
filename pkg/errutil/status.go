// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package errutil

import (
	"errors"
	"net/http"

	"github.com/lorekeep/lorekeep/internal/archive"
)

// HTTPStatus maps a service error to the HTTP status code an API layer
// should return. Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, archive.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, archive.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, archive.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, archive.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
