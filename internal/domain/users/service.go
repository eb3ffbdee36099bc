package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pethub/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound lo devuelven los adapters de storage cuando el usuario no existe.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicate: username o email ya registrados. El chequeo es
	// exact-match; si debe ser case-insensitive lo decide la collation
	// de la base (decisión de producto pendiente).
	ErrDuplicate = errors.New("username or email already registered")

	// ErrInvalidCredentials es genérico a propósito: no distinguimos
	// "email no existe" de "contraseña incorrecta".
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo Repository
	now  func() time.Time

	// bcryptCost configurable para bajarlo en tests
	bcryptCost int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:       repo,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // opcional; default user
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, ErrInvalidInput
	}

	role := auth.RoleUser
	if strings.TrimSpace(in.Role) != "" {
		parsed, ok := auth.ParseRole(strings.TrimSpace(in.Role))
		if !ok {
			return User{}, ErrInvalidInput
		}
		role = parsed
	}

	// Duplicados por username O email, como una sola condición de rechazo.
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return User{}, ErrDuplicate
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}
