// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation, while ErrConflict signals that
// an operation cannot proceed due to existing dependent records
// (e.g. deleting a city that still has venues or distance edges).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// they are not authorized for. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as removing a city
// that venues or events still reference. Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
