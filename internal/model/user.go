package model

import "time"

// User represents an authenticated account as stored in the `users`
// table. Credentials are phone based: the phone number is normalized
// and folded into a pseudo email (`<digits>@sms.local`) so that the
// generic email/password credential columns can be reused unchanged.
// Roles are NOT stored on this row; see RoleAssignment.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique phone-derived pseudo email.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (phone pseudo email)
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Role names accepted in the `user_roles` table and carried in JWT
// access tokens. Admins manage suppliers and collections; suppliers
// only read their own linked records.
const (
	RoleAdmin    = "ADMIN"
	RoleSupplier = "SUPPLIER"
)

// RoleAssignment maps a user to exactly one role. It lives in its own
// `user_roles` table (never a column on users) so that role changes
// are independently auditable and only admin actors may touch them.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user the role is assigned to.
//  Role      – role name (RoleAdmin or RoleSupplier).
//  CreatedAt – timestamp of assignment.
type RoleAssignment struct {
	ID        uint64    // user_roles.id
	UserID    uint64    // user_roles.user_id
	Role      string    // user_roles.role
	CreatedAt time.Time // user_roles.created_at
}

// Profile holds the display attributes of an account, one row per
// user, created as a side effect of signup.
//
// Fields:
//  UserID    – owning user (primary key).
//  FullName  – display name entered at signup.
//  Phone     – normalized international phone number.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Profile struct {
	UserID    uint64    // profiles.user_id
	FullName  string    // profiles.full_name
	Phone     string    // profiles.phone
	CreatedAt time.Time // profiles.created_at
	UpdatedAt time.Time // profiles.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation. The plain token is not stored; only its SHA-256
// hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
