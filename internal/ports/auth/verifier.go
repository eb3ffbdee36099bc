package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite un token firmado para un principal.
// Separado del verifier: los handlers de auth emiten, el middleware verifica.
type TokenIssuer interface {
	Issue(userID, username string, role Role) (string, error)
}
