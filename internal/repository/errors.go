// Package repository contains data access logic separated from HTTP
// handlers. Sentinel errors defined here let handlers distinguish
// failure scenarios without inspecting driver errors: ErrForbidden
// maps to 403, ErrNotFound to 404, ErrConflict/ErrPhoneExists/
// ErrCodeExists to 409.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned when the requested row does not exist or is
// not visible to the caller. The two cases are deliberately
// indistinguishable so that a supplier probing foreign IDs cannot
// learn whether a record exists.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller lacks the role or
// ownership required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state.
var ErrConflict = errors.New("conflict")

// ErrPhoneExists signals a duplicate phone-derived credential at
// signup.
var ErrPhoneExists = errors.New("phone already registered")

// ErrCodeExists signals a duplicate supplier code.
var ErrCodeExists = errors.New("supplier code already exists")

// DBTX is satisfied by both *sql.DB and *sql.Tx so that repository
// methods can participate in the signup transaction without knowing
// whether they run standalone.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
