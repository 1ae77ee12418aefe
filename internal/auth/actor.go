// Package auth defines the caller identity that every role-sensitive
// operation receives explicitly. There is no ambient "current user"
// anywhere in the process: handlers build an Actor from verified JWT
// claims at the top of the request and pass it down to repositories,
// which fold it into the SQL itself.
package auth

import "github.com/iliyamo/dairy-collection/internal/model"

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID uint64
	Role   string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// IsSupplier reports whether the actor carries the supplier role.
func (a Actor) IsSupplier() bool { return a.Role == model.RoleSupplier }
