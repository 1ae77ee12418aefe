package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/dairy-collection/internal/model"
)

// ProfileRepo owns the `profiles` table, one row per user created at
// signup.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// Create inserts the profile row; runs on the signup transaction.
func (r *ProfileRepo) Create(ctx context.Context, q DBTX, userID uint64, fullName, phone string) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO profiles (user_id, full_name, phone) VALUES (?,?,?)",
		userID, fullName, phone)
	return err
}

// GetByUserID fetches a profile by its owning user.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	var p model.Profile
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, full_name, phone, created_at, updated_at FROM profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.UserID, &p.FullName, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// FindUserIDByPhone returns the user whose profile carries the given
// normalized phone. Used by the idempotent supplier relink operation.
func (r *ProfileRepo) FindUserIDByPhone(ctx context.Context, phone string) (uint64, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM profiles WHERE phone=? LIMIT 1",
		phone).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}
