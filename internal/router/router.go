package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dairy-collection/internal/handler"
	"github.com/iliyamo/dairy-collection/internal/middleware"
	"github.com/iliyamo/dairy-collection/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers to
// verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication surface. Unauthenticated
// operations live under /v1/auth; the authenticated profile endpoint
// lives under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only issues a
	// new access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)
	// Legacy phone verification. Codes expire after five minutes and
	// are consumed on first successful verify.
	g.POST("/otp/request", a.OTPRequest)
	g.POST("/otp/verify", a.OTPVerify)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleSupplier))
	auth.GET("/me", a.Me)
	auth.POST("/logout-all", a.LogoutAll)
}
