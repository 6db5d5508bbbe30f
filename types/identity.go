package types

import (
	"strings"
	"time"
)

// Role tags an identity with the account domain it belongs to.
// Users and admins live in separate storage partitions and never share records.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts a free-form string into a Role.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	return role, role.Valid()
}

// Identity represents a user or admin account.
// It contains credentials and profile metadata.
type Identity struct {
	// ID is the unique identifier of the identity within its partition.
	ID string `json:"id" db:"id" bson:"_id"`

	// Role is the partition the identity was loaded from. It is derived from
	// the storage location and is not persisted as a column.
	Role Role `json:"role" db:"-" bson:"-"`

	// Username is the login name chosen at registration.
	Username string `json:"username" db:"username" bson:"username"`

	// PasswordHash stores the bcrypt hash of the password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash" bson:"password_hash"`

	// FullName is the display name. Assignments reference admins by it.
	FullName string `json:"full_name" db:"full_name" bson:"full_name"`

	// Email is the contact address of the account.
	Email string `json:"email" db:"email" bson:"email"`

	// CreatedAt is the timestamp when the account was registered.
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}
