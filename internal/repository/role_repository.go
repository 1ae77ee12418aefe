package repository

import (
	"context"
	"database/sql"
	"errors"
)

// RoleRepo owns the `user_roles` table. Role resolution is a single
// flat lookup on purpose: the role check itself must never depend on
// anything that requires a role check, or policy evaluation recurses.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// Assign gives a user a role. Runs on the signup transaction; outside
// signup only admins reach this (enforced at the route).
func (r *RoleRepo) Assign(ctx context.Context, q DBTX, userID uint64, role string) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role) VALUES (?,?)",
		userID, role)
	return err
}

// RoleOf returns the user's role. A user without an assignment gets
// ErrNotFound, which callers treat as "cannot use role-gated
// features" rather than a server fault.
func (r *RoleRepo) RoleOf(ctx context.Context, userID uint64) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM user_roles WHERE user_id=? ORDER BY id LIMIT 1",
		userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return role, err
}
