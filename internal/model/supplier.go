package model

import "time"

// Supplier represents a milk producer registered with the cooperative.
// A supplier row is created and maintained by admins and may be linked
// to at most one user account (matched by phone number at signup).
// Inactive suppliers stay visible in historical records and reports
// but are excluded from the collection-entry choice set.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – unique human-readable supplier code (e.g. "SUP-014").
//  FullName  – supplier's full name.
//  Phone     – normalized phone number used for linking and SMS.
//  Address   – optional free-text address.
//  IsActive  – whether the supplier currently delivers milk.
//  UserID    – linked account, nil until a matching signup happens.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Supplier struct {
	ID        uint64    // suppliers.id
	Code      string    // suppliers.code
	FullName  string    // suppliers.full_name
	Phone     string    // suppliers.phone
	Address   *string   // suppliers.address (nullable)
	IsActive  bool      // suppliers.is_active
	UserID    *uint64   // suppliers.user_id (nullable, unique)
	CreatedAt time.Time // suppliers.created_at
	UpdatedAt time.Time // suppliers.updated_at
}
