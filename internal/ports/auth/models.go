package auth

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	// Role viene de los metadatos del proveedor; puede venir vacío.
	Role string
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
