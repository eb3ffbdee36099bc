package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pethub/internal/ports/auth"
)

var (
	ErrNoSecret     = errors.New("jwtauth: secret is empty")
	ErrInvalidToken = errors.New("jwtauth: invalid token")
)

// Service emite y verifica JWT HS256 con expiración absoluta (default 1h).
// Implementa auth.TokenIssuer y auth.AuthVerifier.
// La verificación falla cerrada: firma inválida, token malformado o
// expirado devuelven error; el handler lo mapea a 401.
type Service struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func New(secret string, expiry time.Duration) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Service{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}, nil
}

func (s *Service) Issue(userID, username string, role auth.Role) (string, error) {
	now := s.now()
	c := claims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

func (s *Service) Verify(ctx context.Context, tokenString string) (auth.Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	role, ok := auth.ParseRole(c.Role)
	if !ok {
		return auth.Claims{}, ErrInvalidToken
	}
	userID := strings.TrimSpace(c.Subject)
	if userID == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{
		UserID:   userID,
		Username: c.Username,
		Role:     role,
	}, nil
}
