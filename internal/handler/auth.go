package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dairy-collection/internal/config"
	"github.com/iliyamo/dairy-collection/internal/model"
	"github.com/iliyamo/dairy-collection/internal/otp"
	"github.com/iliyamo/dairy-collection/internal/queue"
	"github.com/iliyamo/dairy-collection/internal/repository"
	queue_publisher "github.com/iliyamo/dairy-collection/internal/service"
	"github.com/iliyamo/dairy-collection/internal/sms"
	"github.com/iliyamo/dairy-collection/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints. The DB handle
// is needed alongside the repos because signup runs user, role,
// profile and supplier linking as one transaction.
type AuthHandler struct {
	Cfg       config.Config
	DB        *sql.DB
	Users     *repository.UserRepo
	Roles     *repository.RoleRepo
	Profiles  *repository.ProfileRepo
	Tokens    *repository.TokenRepo
	Suppliers *repository.SupplierRepo
	OTP       *otp.Store
}

func NewAuthHandler(cfg config.Config, db *sql.DB, u *repository.UserRepo, r *repository.RoleRepo,
	p *repository.ProfileRepo, t *repository.TokenRepo, s *repository.SupplierRepo, o *otp.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, DB: db, Users: u, Roles: r, Profiles: p, Tokens: t, Suppliers: s, OTP: o}
}

// ----- DTOs -----

type registerReq struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN SUPPLIER admin supplier"`
}
type loginReq struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type otpRequestReq struct {
	Phone string `json:"phone" validate:"required"`
}
type otpVerifyReq struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates the account, its role assignment and profile, and
// links a matching unlinked supplier row — all in one transaction, so
// a signup can never end up half-linked. Tokens are returned
// immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
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
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleAdmin && role != model.RoleSupplier {
		role = model.RoleSupplier
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	defer func() { _ = tx.Rollback() }()

	uid, err := h.Users.Create(ctx, tx, sms.PseudoEmail(phone), req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrPhoneExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	if err := h.Roles.Assign(ctx, tx, uid, role); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	if err := h.Profiles.Create(ctx, tx, uid, strings.TrimSpace(req.FullName), phone); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	if role == model.RoleSupplier {
		// Best-effort link: an unlinked supplier row with this exact
		// normalized phone becomes this account's supplier. Missing
		// match is fine; the admin relink operation reconciles later.
		if s, err := h.Suppliers.FindUnlinkedByPhone(ctx, tx, phone); err == nil {
			if err := h.Suppliers.LinkUser(ctx, tx, s.ID, uid); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return h.issueTokens(c, http.StatusCreated, uid, req.FullName, phone, role)
}

// Login verifies phone+password and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return invalidFields(c, err)
	}
	phone, err := sms.Normalize(req.Phone, h.Cfg.SMSCountryPrefix)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, sms.PseudoEmail(phone))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	role, err := h.Roles.RoleOf(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Account exists but has no role assignment yet; role-gated
			// features are off limits until an admin assigns one.
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	p, err := h.Profiles.GetByUserID(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return h.issueTokens(c, http.StatusOK, u.ID, p.FullName, p.Phone, role)
}

// Refresh validates by hash, revokes the old token and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	role, err := h.Roles.RoleOf(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	p, err := h.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	return h.issueTokens(c, http.StatusOK, userID, p.FullName, p.Phone, role)
}

// RefreshAccess returns a fresh access token WITHOUT rotating the
// refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	role, err := h.Roles.RoleOf(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the refresh token supplied in the body. A valid
// token answers 204; anything else 401.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every refresh token of the authenticated user,
// ending all of their sessions at once.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeAllForUser(ctx, actor.UserID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile, role and, for supplier
// accounts, the linked supplier row.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, ok := actorOr401(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := echo.Map{
		"user": userPart{ID: actor.UserID, FullName: p.FullName, Phone: p.Phone, Role: actor.Role},
	}
	if actor.IsSupplier() {
		if s, err := h.Suppliers.GetByUserID(ctx, actor.UserID); err == nil {
			resp["supplier"] = supplierResp(s)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// OTPRequest issues a one-time code and queues it for SMS delivery.
// Part of the legacy verification surface; password login does not
// depend on it.
func (h *AuthHandler) OTPRequest(c echo.Context) error {
	var req otpRequestReq
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

	code, err := h.OTP.Issue(ctx, phone)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrTooManyRequests):
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many code requests"})
		case errors.Is(err, otp.ErrUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "verification temporarily unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue code failed"})
	}
	_ = queue_publisher.PublishOutboundSMS(ctx, queue.OutboundSMS{
		Phone:    phone,
		Body:     "Your dairy co-op verification code is " + code + ". It expires in 5 minutes.",
		Kind:     "otp",
		QueuedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.NoContent(http.StatusNoContent)
}

// OTPVerify consumes a code. Wrong, expired and already-used codes
// all answer the same 400.
func (h *AuthHandler) OTPVerify(c echo.Context) error {
	var req otpVerifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return invalidFields(c, err)
	}
	phone, err := sms.Normalize(req.Phone, h.Cfg.SMSCountryPrefix)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired code"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.OTP.Verify(ctx, phone, req.Code); err != nil {
		if errors.Is(err, otp.ErrUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "verification temporarily unavailable"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired code"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) issueTokens(c echo.Context, status int, uid uint64, fullName, phone, role string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(status, authResp{
		User:    userPart{ID: uid, FullName: strings.TrimSpace(fullName), Phone: phone, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}
