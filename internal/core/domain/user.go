package domain

import "time"

// Role gates which dashboard and which report operations a user can reach.
// The wire value for citizens is "user", matching what the backend stores.
type Role string

const (
	RoleCitizen Role = "user"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleCitizen || r == RoleAdmin
}

// User models an authenticated actor in the system. The role is fixed at
// registration; no flow elevates it afterwards.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// IsAdmin is a shorthand used by services and the route guard.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
