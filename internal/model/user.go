package model

import "time"

// Roles recognised in JWT claims.  Customers book through self-service;
// admins run the back office (approvals, walk-ins, reports).
const (
    RoleCustomer = "CUSTOMER"
    RoleAdmin    = "ADMIN"
)

// User is a registered account as stored in the users table.  Walk-in
// customers have no user row; their bookings carry a free-text name.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email, unique
    FullName     string    // users.full_name, shown on booking cards
    PasswordHash string    // users.password_hash (bcrypt)
    Role         string    // users.role (CUSTOMER | ADMIN)
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models a row in refresh_tokens.  Only the SHA-256 hash of
// the issued token is stored; the raw value goes to the client once.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
