package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dairy-collection/internal/handler"
	"github.com/iliyamo/dairy-collection/internal/middleware"
	"github.com/iliyamo/dairy-collection/internal/model"
)

// RegisterSupplier registers the supplier self-service endpoints under
// /v1/my. All routes require a valid JWT and the SUPPLIER role; the
// repo layer scopes every read to the caller's own rows on top of
// that.
func RegisterSupplier(e *echo.Echo, m *handler.MyHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/my",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSupplier),
	)

	g.GET("/collections", m.Collections)
	g.GET("/collections/export.csv", m.ExportCSV)
	g.GET("/summary", m.Summary, cache) // cache key folds in the user id
}
