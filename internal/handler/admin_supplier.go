package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dairy-collection/internal/config"
	"github.com/iliyamo/dairy-collection/internal/model"
	"github.com/iliyamo/dairy-collection/internal/repository"
	"github.com/iliyamo/dairy-collection/internal/sms"
)

// SupplierHandler implements the admin-only supplier management
// surface. Routes are gated by RequireRole(ADMIN); nothing here
// re-checks the role, but ownership-sensitive reads still go through
// the repo scope.
type SupplierHandler struct {
	Cfg       config.Config
	Suppliers *repository.SupplierRepo
	Profiles  *repository.ProfileRepo
}

func NewSupplierHandler(cfg config.Config, s *repository.SupplierRepo, p *repository.ProfileRepo) *SupplierHandler {
	return &SupplierHandler{Cfg: cfg, Suppliers: s, Profiles: p}
}

type supplierReq struct {
	Code     string  `json:"code" validate:"required,min=2,max=20"`
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string  `json:"phone" validate:"required,min=7,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
}

// Create handles POST /v1/suppliers.
func (h *SupplierHandler) Create(c echo.Context) error {
	var req supplierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return invalidFields(c, err)
	}
	phone, err := sms.Normalize(req.Phone, h.Cfg.SMSCountryPrefix)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": map[string]string{"phone": "phone is invalid"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := &model.Supplier{
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    phone,
		Address:  req.Address,
		IsActive: true,
	}
	if err := h.Suppliers.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrCodeExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "supplier code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create supplier"})
	}
	return c.JSON(http.StatusCreated, supplierResp(s))
}

// List handles GET /v1/suppliers. ?active=true narrows to the
// collection-entry choice set.
func (h *SupplierHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	activeOnly := c.QueryParam("active") == "true"
	items, err := h.Suppliers.List(ctx, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]supplierPayload, 0, len(items))
	for _, s := range items {
		out = append(out, supplierResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/suppliers/:id.
func (h *SupplierHandler) Get(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, supplierResp(s))
}

// Update handles PUT/PATCH /v1/suppliers/:id. The code is immutable;
// the active flag and account link have their own operations.
func (h *SupplierHandler) Update(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		FullName string  `json:"full_name" validate:"required,min=2,max=100"`
		Phone    string  `json:"phone" validate:"required,min=7,max=20"`
		Address  *string `json:"address" validate:"omitempty,max=500"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return invalidFields(c, err)
	}
	phone, err := sms.Normalize(req.Phone, h.Cfg.SMSCountryPrefix)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": map[string]string{"phone": "phone is invalid"}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Suppliers.Update(ctx, id, strings.TrimSpace(req.FullName), phone, req.Address); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	s, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, supplierResp(s))
}

// SetActive handles PATCH /v1/suppliers/:id/active. Deactivation
// removes the supplier from the collection-entry choice set; history
// keeps showing them.
func (h *SupplierHandler) SetActive(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Suppliers.SetActive(ctx, id, *req.IsActive); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	s, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, supplierResp(s))
}

// Delete handles DELETE /v1/suppliers/:id. The FK cascades, so the
// supplier's collection history is removed with the row.
func (h *SupplierHandler) Delete(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Suppliers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Relink handles POST /v1/suppliers/:id/relink, the idempotent
// reconcile for supplier rows created after their account signed up.
// It matches the supplier phone against profiles and links when an
// account exists; calling it again is harmless.
func (h *SupplierHandler) Relink(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if s.UserID != nil {
		return c.JSON(http.StatusOK, supplierResp(s)) // already linked
	}
	uid, err := h.Profiles.FindUserIDByPhone(ctx, s.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, supplierResp(s)) // no account yet, nothing to do
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Suppliers.LinkUser(ctx, h.Suppliers.DB(), s.ID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "link failed"})
	}
	s, err = h.Suppliers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, supplierResp(s))
}
