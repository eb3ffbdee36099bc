package auth

// Role es un enum cerrado: no hay endpoint de promoción,
// los admin se provisionan fuera de banda (directo en la base).
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Username string
	Role     Role
}

// IsAdmin es el único atajo de rol que usan los handlers.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
