package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/dairy-collection/internal/auth"
	"github.com/iliyamo/dairy-collection/internal/middleware"
	"github.com/iliyamo/dairy-collection/internal/model"
)

// actorOr401 resolves the verified caller identity. On failure it
// writes the 401 itself and reports false; the handler just returns
// nil.
func actorOr401(c echo.Context) (auth.Actor, bool) {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return auth.Actor{}, false
	}
	return actor, true
}

// idParam parses the numeric :id path parameter.
func idParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}

// parseMoney parses a positive-or-zero decimal with at most two
// fractional digits, the precision of liters and currency here.
func parseMoney(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if d.IsNegative() || d.Exponent() < -2 {
		return decimal.Decimal{}, false
	}
	return d, true
}

// validDate reports whether s is a well-formed YYYY-MM-DD date.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// today is the collection date default, resolved in server local time
// (the creator's locale in this single-site deployment).
func today() string {
	return time.Now().Format("2006-01-02")
}

type supplierPayload struct {
	ID       uint64  `json:"id"`
	Code     string  `json:"code"`
	FullName string  `json:"full_name"`
	Phone    string  `json:"phone"`
	Address  *string `json:"address,omitempty"`
	IsActive bool    `json:"is_active"`
	Linked   bool    `json:"linked"`
}

func supplierResp(s *model.Supplier) supplierPayload {
	return supplierPayload{
		ID:       s.ID,
		Code:     s.Code,
		FullName: s.FullName,
		Phone:    s.Phone,
		Address:  s.Address,
		IsActive: s.IsActive,
		Linked:   s.UserID != nil,
	}
}

type collectionPayload struct {
	ID             uint64  `json:"id"`
	SupplierID     uint64  `json:"supplier_id"`
	SupplierCode   string  `json:"supplier_code"`
	SupplierName   string  `json:"supplier_name"`
	Date           string  `json:"date"`
	QuantityLiters string  `json:"quantity_liters"`
	FatPercent     *string `json:"fat_percent,omitempty"`
	RatePerLiter   string  `json:"rate_per_liter"`
	TotalAmount    string  `json:"total_amount"`
	Note           *string `json:"note,omitempty"`
	PreparedBy     *string `json:"prepared_by,omitempty"`
}

func collectionResp(r model.CollectionRecord) collectionPayload {
	p := collectionPayload{
		ID:             r.ID,
		SupplierID:     r.SupplierID,
		SupplierCode:   r.SupplierCode,
		SupplierName:   r.SupplierName,
		Date:           r.CollectedOn,
		QuantityLiters: r.QuantityLiters.StringFixed(2),
		RatePerLiter:   r.RatePerLiter.StringFixed(2),
		TotalAmount:    r.TotalAmount.StringFixed(2),
		Note:           r.Note,
		PreparedBy:     r.CreatedByName,
	}
	if r.FatPercent.Valid {
		fat := r.FatPercent.Decimal.StringFixed(1)
		p.FatPercent = &fat
	}
	return p
}

func collectionsResp(records []model.CollectionRecord) []collectionPayload {
	out := make([]collectionPayload, 0, len(records))
	for _, r := range records {
		out = append(out, collectionResp(r))
	}
	return out
}
