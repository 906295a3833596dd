package auth

import (
	"time"

	"github.com/inkwell-cms/inkwell/internal/authz"
)

// User represents an account record as the auth module sees it. PasswordHash
// never leaves this package: it is excluded from token claims and from every
// response DTO.
type User struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Role         authz.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the identity claims derived from the user.
func (u *User) Principal() authz.Principal {
	return authz.Principal{ID: u.ID, Role: u.Role}
}
