package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/dairy-collection/internal/auth"
	"github.com/iliyamo/dairy-collection/internal/config"
	"github.com/iliyamo/dairy-collection/internal/model"
	"github.com/iliyamo/dairy-collection/internal/payment"
	"github.com/iliyamo/dairy-collection/internal/queue"
	"github.com/iliyamo/dairy-collection/internal/repository"
	queue_publisher "github.com/iliyamo/dairy-collection/internal/service"
	"github.com/iliyamo/dairy-collection/internal/stats"
)

// CollectionHandler implements the admin collection surface: record
// entry, deletion, listing, the aggregate reports and the CSV export.
// Records are immutable once written; the only correction path is
// delete and re-enter, so the payment figures on a row can never
// drift from what was computed at entry time.
type CollectionHandler struct {
	Cfg         config.Config
	Collections *repository.CollectionRepo
	Suppliers   *repository.SupplierRepo
}

func NewCollectionHandler(cfg config.Config, c *repository.CollectionRepo, s *repository.SupplierRepo) *CollectionHandler {
	return &CollectionHandler{Cfg: cfg, Collections: c, Suppliers: s}
}

type collectionCreateReq struct {
	SupplierID     uint64  `json:"supplier_id" validate:"required"`
	Date           string  `json:"date" validate:"omitempty"`
	QuantityLiters string  `json:"quantity_liters" validate:"required"`
	FatPercent     *string `json:"fat_percent"`
	RatePerLiter   string  `json:"rate_per_liter"`
	Note           *string `json:"note" validate:"omitempty,max=500"`
}

// Create handles POST /v1/collections. The handler validates inputs,
// resolves the rate for the configured payment mode, computes the
// stored figures through the calculator and persists the row. The
// supplier notification and the recorded event are queued after the
// commit; a broker outage never fails the entry.
func (h *CollectionHandler) Create(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	var req collectionCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return invalidFields(c, err)
	}

	fields := map[string]string{}

	qty, ok := parseMoney(req.QuantityLiters)
	if !ok || qty.IsZero() {
		fields["quantity_liters"] = "quantity must be a positive number with at most two decimals"
	}

	var fat decimal.NullDecimal
	if req.FatPercent != nil && *req.FatPercent != "" {
		f, err := decimal.NewFromString(*req.FatPercent)
		if err != nil || f.IsNegative() || f.GreaterThan(decimal.NewFromInt(100)) {
			fields["fat_percent"] = "fat_percent must be between 0 and 100"
		} else {
			fat = decimal.NullDecimal{Decimal: f, Valid: true}
		}
	}

	// FLAT mode takes the rate from the request; FAT_ADJUSTED mode
	// starts from the configured base rate, which the operator may
	// override per entry.
	rateSrc := req.RatePerLiter
	if rateSrc == "" && h.Cfg.RateMode == payment.ModeFatAdjusted {
		rateSrc = h.Cfg.BaseRate
	}
	rate, ok := parseMoney(rateSrc)
	if rateSrc == "" || !ok || rate.IsZero() {
		fields["rate_per_liter"] = "rate must be a positive number with at most two decimals"
	}

	date := req.Date
	if date == "" {
		date = today()
	} else if !validDate(date) {
		fields["date"] = "date must be YYYY-MM-DD"
	}

	if len(fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Suppliers.GetByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !s.IsActive {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "supplier is inactive"})
	}

	calc := payment.Calculate(h.Cfg.RateMode, qty, rate, fat)

	rec := &model.CollectionRecord{
		SupplierID:     s.ID,
		CollectedOn:    date,
		QuantityLiters: qty,
		FatPercent:     fat,
		RatePerLiter:   calc.RatePerLiter,
		TotalAmount:    calc.TotalAmount,
		Note:           req.Note,
		CreatedBy:      &actor.UserID,
	}
	if err := h.Collections.Create(ctx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save record"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_ = queue_publisher.PublishCollectionRecorded(ctx, queue.CollectionRecorded{
		CollectionID:   rec.ID,
		SupplierID:     s.ID,
		SupplierCode:   s.Code,
		CollectedOn:    date,
		QuantityLiters: qty.StringFixed(2),
		RatePerLiter:   calc.RatePerLiter.StringFixed(2),
		TotalAmount:    calc.TotalAmount.StringFixed(2),
		RecordedBy:     actor.UserID,
		RecordedAt:     now,
	})
	_ = queue_publisher.PublishOutboundSMS(ctx, queue.OutboundSMS{
		Phone: s.Phone,
		Body: "Milk received " + date + ": " + qty.StringFixed(2) + " L @ " +
			calc.RatePerLiter.StringFixed(2) + " = " + calc.TotalAmount.StringFixed(2) + ". Dairy Co-op",
		Kind:     "collection",
		QueuedAt: now,
	})

	// Re-read through the repo so the response carries the joined
	// supplier and preparer names.
	full, err := h.Collections.GetByID(ctx, actor, rec.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, collectionResp(full))
}

// Delete handles DELETE /v1/collections/:id.
func (h *CollectionHandler) Delete(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Collections.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// filterFrom reads the shared listing query parameters. Invalid dates
// are rejected rather than silently ignored so a typo never widens a
// report.
func filterFrom(c echo.Context) (repository.CollectionFilter, map[string]string) {
	fields := map[string]string{}
	var f repository.CollectionFilter
	if v := c.QueryParam("supplier_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			fields["supplier_id"] = "supplier_id must be numeric"
		} else {
			f.SupplierID = id
		}
	}
	if v := c.QueryParam("from"); v != "" {
		if !validDate(v) {
			fields["from"] = "from must be YYYY-MM-DD"
		} else {
			f.DateFrom = v
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if !validDate(v) {
			fields["to"] = "to must be YYYY-MM-DD"
		} else {
			f.DateTo = v
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fields["limit"] = "limit must be a positive integer"
		} else {
			f.Limit = n
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return f, fields
}

// list runs the filtered repo listing. On failure it writes the
// response itself and reports false.
func (h *CollectionHandler) list(c echo.Context, actor auth.Actor) ([]model.CollectionRecord, bool) {
	f, fields := filterFrom(c)
	if fields != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
		return nil, false
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.Collections.List(ctx, actor, f)
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		return nil, false
	}
	return records, true
}

// List handles GET /v1/collections.
func (h *CollectionHandler) List(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	records, ok := h.list(c, actor)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, echo.Map{"items": collectionsResp(records)})
}

// Summary handles GET /v1/collections/summary: one aggregate over the
// filtered set.
func (h *CollectionHandler) Summary(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	records, ok := h.list(c, actor)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, stats.Summarize(records))
}

// Daily handles GET /v1/collections/daily: per-day aggregates over the
// filtered set, most recent day first.
func (h *CollectionHandler) Daily(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	records, ok := h.list(c, actor)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, echo.Map{"days": stats.DailySummaries(records)})
}

// Dashboard handles GET /v1/dashboard: today's aggregate
// plus the recent per-day breakdown in one response.
func (h *CollectionHandler) Dashboard(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.Collections.List(ctx, actor, repository.CollectionFilter{Limit: repository.MaxListLimit})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	td := today()
	var todays []model.CollectionRecord
	for _, r := range records {
		if r.CollectedOn == td {
			todays = append(todays, r)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":  td,
		"today": stats.Summarize(todays),
		"days":  stats.DailySummaries(records),
	})
}

// ExportCSV handles GET /v1/collections/export.csv, streaming the
// filtered records in the fixed spreadsheet column order.
func (h *CollectionHandler) ExportCSV(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	records, ok := h.list(c, actor)
	if !ok {
		return nil
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+stats.ExportFilename(time.Now())+`"`)
	res.WriteHeader(http.StatusOK)
	return stats.WriteCollectionsCSV(res, records)
}
