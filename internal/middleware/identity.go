package middleware

// identity.go converts the claims JWTAuth stored in the Echo context
// into the explicit auth.Actor every repository call requires. The
// actor is rebuilt per request from verified claims; no identity is
// ever held in package state.

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dairy-collection/internal/auth"
)

// ErrNoActor is returned when the context lacks a usable identity,
// typically because JWTAuth did not run on the route.
var ErrNoActor = errors.New("no authenticated actor in context")

// ActorFrom builds the acting caller from context values set by
// JWTAuth. JSON numbers arrive as float64; other encodings are
// tolerated for robustness.
func ActorFrom(c echo.Context) (auth.Actor, error) {
	role, _ := c.Get("role").(string)
	id, ok := numericClaim(c.Get("user_id"))
	if !ok || role == "" {
		return auth.Actor{}, ErrNoActor
	}
	return auth.Actor{UserID: id, Role: role}, nil
}

func numericClaim(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint64:
		return t, true
	case int:
		return uint64(t), true
	case int64:
		return uint64(t), true
	case float64:
		return uint64(t), true
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// rateKeyUserID is the limiter's view of the caller: the stringified
// user id, or "anon" before authentication.
func rateKeyUserID(c echo.Context) string {
	if id, ok := numericClaim(c.Get("user_id")); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
