package model

import (
	"time"
)

// Role gates write access. Members can only manage their own profile.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleMember Role = "Member"
)

// Roles lists every valid role, highest privilege first.
var Roles = []Role{RoleAdmin, RoleEditor, RoleMember}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleMember:
		return true
	}
	return false
}

// CanEditContent reports whether the role may write club content.
func (r Role) CanEditContent() bool {
	return r == RoleAdmin || r == RoleEditor
}

// User is an account that can sign in to the admin panel.
type User struct {
	Base
	Username       string     `json:"username" db:"username"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	Role           Role       `json:"role" db:"role"`
	ProfilePicture string     `json:"profilePicture" db:"profile_picture"`
	LastLoginAt    *time.Time `json:"lastLoginAt" db:"last_login_at"`
}

// AuthResponse is returned by register and login: the user plus a bearer token.
type AuthResponse struct {
	*User
	Token string `json:"token"`
}
