package models

import "time"

// Role is the coarse access level of a staff account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMaster Role = "master"
	RoleRH     Role = "rh"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleMaster, RoleRH}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts free text into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Account is a staff member allowed to sign in.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // bcrypt, never exposed
	Role         Role      `gorm:"size:20;not null" json:"role"`
	Active       bool      `gorm:"not null" json:"active"`
}
