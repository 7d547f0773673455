package profiles

import (
	"time"

	"health-directory/internal/ports/auth"
)

// Roles válidos del flag de perfil.
const (
	RoleUser  = auth.RoleUser
	RoleAdmin = auth.RoleAdmin
)

func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// Profile es el perfil público de un usuario del proveedor de identidad.
// ID coincide con el user id del token.
type Profile struct {
	ID       string
	FullName string
	Email    string
	Phone    string
	City     string
	Role     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
