package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionRecord is one milk pickup event in the `milk_collections`
// table. Records are create/delete only: there is no update path, and
// TotalAmount is always computed server side from quantity and rate,
// never accepted from a client.
//
// CollectedOn is kept as the literal "YYYY-MM-DD" string the row was
// stored with. Daily grouping compares these strings byte for byte;
// parsing them into timestamps would reintroduce timezone-shift bugs.
type CollectionRecord struct {
	ID             uint64              // milk_collections.id
	SupplierID     uint64              // milk_collections.supplier_id
	SupplierCode   string              // joined from suppliers.code for display
	SupplierName   string              // joined from suppliers.full_name for display
	CollectedOn    string              // milk_collections.collected_on as YYYY-MM-DD
	QuantityLiters decimal.Decimal     // milk_collections.quantity_liters (> 0)
	FatPercent     decimal.NullDecimal // milk_collections.fat_percent (nullable, 0..100)
	RatePerLiter   decimal.Decimal     // milk_collections.rate_per_liter (>= 0)
	TotalAmount    decimal.Decimal     // milk_collections.total_amount (= quantity * rate)
	Note           *string             // milk_collections.note (nullable)
	CreatedBy      *uint64             // milk_collections.created_by (nullable admin user id)
	CreatedByName  *string             // joined from profiles.full_name for display
	CreatedAt      time.Time           // milk_collections.created_at
}
