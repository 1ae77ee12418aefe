package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/dairy-collection/internal/auth"
	"github.com/iliyamo/dairy-collection/internal/model"
)

// Collection list bounds. Aggregation work is capped by row count,
// not by a time budget.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// CollectionFilter narrows a collection listing. Zero values mean "no
// filter". Dates are literal YYYY-MM-DD strings compared against the
// stored value.
type CollectionFilter struct {
	SupplierID uint64
	DateFrom   string
	DateTo     string
	Limit      int
}

// CollectionRepo encapsulates all queries on `milk_collections`.
// Every read takes the acting caller and folds visibility into the
// SQL itself: a supplier actor can only ever match rows whose
// supplier link resolves to their own account, no matter what filters
// the request carried. The handlers never post-filter.
type CollectionRepo struct {
	db *sql.DB
}

func NewCollectionRepo(db *sql.DB) *CollectionRepo { return &CollectionRepo{db: db} }

// visibilityScope returns the WHERE fragment and arguments enforcing
// row visibility for the actor. Admins see everything; suppliers see
// rows whose suppliers.user_id equals their own ID; anyone else sees
// nothing.
func visibilityScope(actor auth.Actor) (string, []any) {
	switch {
	case actor.IsAdmin():
		return "1=1", nil
	case actor.IsSupplier():
		return "s.user_id = ?", []any{actor.UserID}
	default:
		return "1=0", nil
	}
}

const collectionSelect = `
SELECT c.id, c.supplier_id, s.code, s.full_name,
       DATE_FORMAT(c.collected_on, '%Y-%m-%d'),
       c.quantity_liters, c.fat_percent, c.rate_per_liter, c.total_amount,
       c.note, c.created_by, p.full_name, c.created_at
FROM milk_collections c
JOIN suppliers s ON s.id = c.supplier_id
LEFT JOIN profiles p ON p.user_id = c.created_by`

func scanCollection(rows interface{ Scan(...any) error }) (model.CollectionRecord, error) {
	var (
		rec       model.CollectionRecord
		note      sql.NullString
		createdBy sql.NullInt64
		byName    sql.NullString
	)
	err := rows.Scan(&rec.ID, &rec.SupplierID, &rec.SupplierCode, &rec.SupplierName,
		&rec.CollectedOn, &rec.QuantityLiters, &rec.FatPercent, &rec.RatePerLiter,
		&rec.TotalAmount, &note, &createdBy, &byName, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	if note.Valid {
		rec.Note = &note.String
	}
	if createdBy.Valid {
		id := uint64(createdBy.Int64)
		rec.CreatedBy = &id
	}
	if byName.Valid {
		rec.CreatedByName = &byName.String
	}
	return rec, nil
}

// Create inserts a pickup record. Quantity, rate and total arrive
// already validated and computed; the date is the literal YYYY-MM-DD
// string chosen by the operator (or "today", resolved by the
// handler).
func (r *CollectionRepo) Create(ctx context.Context, rec *model.CollectionRecord) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO milk_collections
		 (supplier_id, collected_on, quantity_liters, fat_percent, rate_per_liter, total_amount, note, created_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		rec.SupplierID, rec.CollectedOn, rec.QuantityLiters, rec.FatPercent,
		rec.RatePerLiter, rec.TotalAmount, rec.Note, rec.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// Delete removes a record. Records are immutable otherwise; the only
// correction path is delete and re-enter.
func (r *CollectionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM milk_collections WHERE id=?", id)
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

// List returns visible records, most recent date first, bounded by
// the filter limit (default 100, max 500).
func (r *CollectionRepo) List(ctx context.Context, actor auth.Actor, f CollectionFilter) ([]model.CollectionRecord, error) {
	scope, args := visibilityScope(actor)
	var b strings.Builder
	b.WriteString(collectionSelect)
	b.WriteString(" WHERE ")
	b.WriteString(scope)

	if f.SupplierID != 0 {
		b.WriteString(" AND c.supplier_id = ?")
		args = append(args, f.SupplierID)
	}
	if f.DateFrom != "" {
		b.WriteString(" AND c.collected_on >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		b.WriteString(" AND c.collected_on <= ?")
		args = append(args, f.DateTo)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	b.WriteString(" ORDER BY c.collected_on DESC, c.id DESC LIMIT ")
	b.WriteString(strconv.Itoa(limit))

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CollectionRecord
	for rows.Next() {
		rec, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetByID returns a single visible record, ErrNotFound both when the
// row does not exist and when it is outside the actor's scope.
func (r *CollectionRepo) GetByID(ctx context.Context, actor auth.Actor, id uint64) (model.CollectionRecord, error) {
	scope, args := visibilityScope(actor)
	q := collectionSelect + " WHERE " + scope + " AND c.id = ? LIMIT 1"
	args = append(args, id)
	rec, err := scanCollection(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}
