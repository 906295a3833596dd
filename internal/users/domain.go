package users

import (
	"time"

	"github.com/inkwell-cms/inkwell/internal/authz"
)

// User is the account read model for management endpoints. The credential
// hash is deliberately absent from this type.
type User struct {
	ID        string
	Name      string
	Username  string
	Email     string
	Role      authz.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
