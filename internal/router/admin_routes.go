package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dairy-collection/internal/handler"
	"github.com/iliyamo/dairy-collection/internal/middleware"
	"github.com/iliyamo/dairy-collection/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1. All routes
// require a valid JWT and the ADMIN role. The report endpoints
// additionally go through the response cache: aggregates are
// recomputed from the row set on every miss, so a short TTL is the
// only staleness a reader can ever see.
func RegisterAdmin(e *echo.Echo, s *handler.SupplierHandler, col *handler.CollectionHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Suppliers ----
	g.POST("/suppliers", s.Create)
	g.GET("/suppliers", s.List) // ?active=true narrows to the entry choice set
	g.GET("/suppliers/:id", s.Get)
	g.PUT("/suppliers/:id", s.Update)
	g.PATCH("/suppliers/:id", s.Update)
	g.PATCH("/suppliers/:id/active", s.SetActive)
	g.DELETE("/suppliers/:id", s.Delete)
	g.POST("/suppliers/:id/relink", s.Relink)

	// ---- Collections ----
	g.POST("/collections", col.Create)
	g.GET("/collections", col.List)
	g.DELETE("/collections/:id", col.Delete)
	g.GET("/collections/export.csv", col.ExportCSV)

	// ---- Reports ----
	g.GET("/collections/summary", col.Summary, cache)
	g.GET("/collections/daily", col.Daily, cache)
	g.GET("/dashboard", col.Dashboard, cache)
}
