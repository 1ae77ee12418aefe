package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dairy-collection/internal/repository"
	"github.com/iliyamo/dairy-collection/internal/stats"
)

// MyHandler is the supplier self-service surface: own history, own
// totals, own export. Every read goes through the actor-scoped repo,
// so even a hand-crafted supplier_id filter can only ever match the
// caller's own rows.
type MyHandler struct {
	CollectionRepo *repository.CollectionRepo
	Suppliers   *repository.SupplierRepo
}

func NewMyHandler(c *repository.CollectionRepo, s *repository.SupplierRepo) *MyHandler {
	return &MyHandler{CollectionRepo: c, Suppliers: s}
}

// Collections handles GET /v1/my/collections with the same date and
// limit filters as the admin listing.
func (h *MyHandler) Collections(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	f, fields := filterFrom(c)
	if fields != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.CollectionRepo.List(ctx, actor, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": collectionsResp(records)})
}

// Summary handles GET /v1/my/summary: the linked supplier row plus the
// caller's aggregate and per-day breakdown over the filtered window.
func (h *MyHandler) Summary(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	f, fields := filterFrom(c)
	if fields != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Suppliers.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Account exists but no supplier row is linked yet; there is
			// nothing to summarize.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no supplier linked to this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	records, err := h.CollectionRepo.List(ctx, actor, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"supplier": supplierResp(s),
		"summary":  stats.Summarize(records),
		"days":     stats.DailySummaries(records),
	})
}

// ExportCSV handles GET /v1/my/collections/export.csv.
func (h *MyHandler) ExportCSV(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	f, fields := filterFrom(c)
	if fields != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.CollectionRepo.List(ctx, actor, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+stats.ExportFilename(time.Now())+`"`)
	res.WriteHeader(http.StatusOK)
	return stats.WriteCollectionsCSV(res, records)
}
