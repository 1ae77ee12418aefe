package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/dairy-collection/internal/model"
)

// SupplierRepo encapsulates all database queries related to
// suppliers. Writes are admin-only; the route layer enforces that and
// the repo enforces ownership where a supplier actor reads.
type SupplierRepo struct {
	db *sql.DB
}

func NewSupplierRepo(db *sql.DB) *SupplierRepo { return &SupplierRepo{db: db} }

// DB exposes the underlying handle for callers running transactional
// repo methods outside a transaction.
func (r *SupplierRepo) DB() DBTX { return r.db }

const supplierCols = "id, code, full_name, phone, address, is_active, user_id, created_at, updated_at"

func scanSupplier(row interface{ Scan(...any) error }) (*model.Supplier, error) {
	var s model.Supplier
	var address sql.NullString
	var userID sql.NullInt64
	if err := row.Scan(&s.ID, &s.Code, &s.FullName, &s.Phone, &address, &s.IsActive, &userID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if address.Valid {
		s.Address = &address.String
	}
	if userID.Valid {
		id := uint64(userID.Int64)
		s.UserID = &id
	}
	return &s, nil
}

// Create inserts a new supplier. On success the ID and timestamp
// fields are populated with a follow-up SELECT so callers receive a
// fully populated record.
func (r *SupplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	const qInsert = "INSERT INTO suppliers (code, full_name, phone, address, is_active) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, s.Code, s.FullName, s.Phone, s.Address, s.IsActive)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	got, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *got
	return nil
}

// GetByID fetches a supplier by its ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id uint64) (*model.Supplier, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+supplierCols+" FROM suppliers WHERE id = ?", id)
	s, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// GetByUserID fetches the supplier linked to the given account. This
// is the only supplier read a supplier actor performs.
func (r *SupplierRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Supplier, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+supplierCols+" FROM suppliers WHERE user_id = ?", userID)
	s, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// List returns suppliers ordered by code. When activeOnly is set,
// inactive suppliers are excluded; that is the choice set offered
// when entering a new collection. Reports pass activeOnly=false so
// history keeps showing deactivated suppliers.
func (r *SupplierRepo) List(ctx context.Context, activeOnly bool) ([]*model.Supplier, error) {
	q := "SELECT " + supplierCols + " FROM suppliers"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	q += " ORDER BY code"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of a supplier. The code, the
// link and the active flag have their own operations.
func (r *SupplierRepo) Update(ctx context.Context, id uint64, fullName, phone string, address *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE suppliers SET full_name=?, phone=?, address=? WHERE id=?",
		fullName, phone, address, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetActive toggles the is_active flag. Inactive suppliers drop out
// of the collection-entry choice set but stay in historical reports.
func (r *SupplierRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE suppliers SET is_active=? WHERE id=?", active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a supplier. The milk_collections FK cascades, so all
// of the supplier's history goes with it; handlers confirm intent
// before calling this.
func (r *SupplierRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindUnlinkedByPhone returns the supplier carrying the given
// normalized phone with no account link yet. Used inside the signup
// transaction.
func (r *SupplierRepo) FindUnlinkedByPhone(ctx context.Context, q DBTX, phone string) (*model.Supplier, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+supplierCols+" FROM suppliers WHERE phone = ? AND user_id IS NULL LIMIT 1", phone)
	s, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// LinkUser attaches an account to a supplier row. The WHERE clause
// only matches an unlinked row, which makes the operation idempotent
// and keeps a concurrent signup from stealing an already-linked row:
// losing the race simply affects zero rows.
func (r *SupplierRepo) LinkUser(ctx context.Context, q DBTX, supplierID, userID uint64) error {
	_, err := q.ExecContext(ctx,
		"UPDATE suppliers SET user_id=? WHERE id=? AND user_id IS NULL",
		userID, supplierID)
	return err
}
