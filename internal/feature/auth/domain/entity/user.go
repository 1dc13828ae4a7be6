// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role is the authorization level of a user.
type Role string

const (
	// RoleUser can read the dictionary.
	RoleUser Role = "user"
	// RoleAdmin can also register dictionary entries.
	RoleAdmin Role = "admin"
)

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the hashed password for the user.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Role controls access to admin-only endpoints. New users get RoleUser.
	Role Role `gorm:"size:16;not null;default:user"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// IsAdmin reports whether the user may register dictionary entries.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
