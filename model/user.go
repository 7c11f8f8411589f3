// Package model provides the data records stored by the health-services backend.
package model

import (
	"time"
)

// Role is the privilege level attached to a user account.
type Role string

const (
	// RoleAdmin grants administrative operations: admin provisioning and
	// audit log reads.
	RoleAdmin Role = "admin"
	// RoleStaff is the default non-privileged role.
	RoleStaff Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User represents an account in the system. Email is unique across all users
// and the password is only ever stored as a bcrypt hash.
type User struct {
	Key          string    `json:"_key,omitempty"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a user with default values.
func NewUser(username, email string, role Role) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin returns true if the user holds the privileged role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary is the projection of a user returned to callers. It never carries
// the password hash.
type Summary struct {
	Key      string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Summary returns the external projection of the user.
func (u *User) Summary() Summary {
	return Summary{Key: u.Key, Username: u.Username, Email: u.Email, Role: u.Role}
}

// AdminCreationLog is the immutable audit record written once per successful
// admin provisioning call.
type AdminCreationLog struct {
	Key         string    `json:"_key,omitempty"`
	CreatorKey  string    `json:"creator_key"`
	Creator     string    `json:"creator"`
	NewAdminKey string    `json:"new_admin_key"`
	NewAdmin    string    `json:"new_admin"`
	CreatedAt   time.Time `json:"created_at"`
}
