package users

import (
	"time"

	"pethub/internal/ports/auth"
)

// User es la cuenta registrada. PasswordHash nunca se serializa
// hacia afuera; el handler arma su propia respuesta.
type User struct {
	ID       string
	Username string
	Email    string

	PasswordHash string

	// Role default "user". No existe endpoint de promoción: un admin
	// se crea pasando role=admin al registro o directo en la base.
	Role auth.Role

	CreatedAt time.Time
	UpdatedAt time.Time
}
