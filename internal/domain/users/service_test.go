package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pethub/internal/ports/auth"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	if u.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[u.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, errRepoNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, errRepoNotFound
}

func (r *testRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, errRepoNotFound
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestService_Register_DefaultsRoleToUser(t *testing.T) {
	svc := newTestService(newTestRepo())

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != auth.RoleUser {
		t.Fatalf("expected default role user, got %s", u.Role)
	}
	if u.CreatedAt != now || u.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret123" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestService_Register_AcceptsExplicitAdminRole(t *testing.T) {
	svc := newTestService(newTestRepo())

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "root",
		Email:    "root@example.com",
		Password: "secret123",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != auth.RoleAdmin {
		t.Fatalf("expected admin role, got %s", u.Role)
	}
}

func TestService_Register_RejectsBadInput(t *testing.T) {
	svc := newTestService(newTestRepo())

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@b.com", Password: "x"}},
		{"missing email", RegisterInput{Username: "a", Password: "x"}},
		{"missing password", RegisterInput{Username: "a", Email: "a@b.com"}},
		{"malformed email", RegisterInput{Username: "a", Email: "not-an-email", Password: "x"}},
		{"unknown role", RegisterInput{Username: "a", Email: "a@b.com", Password: "x", Role: "superuser"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.in); err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Register_RejectsDuplicates(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// mismo email, distinto username
	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana2",
		Email:    "ana@example.com",
		Password: "secret123",
	}); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate for email, got %v", err)
	}

	// mismo username, distinto email
	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana",
		Email:    "other@example.com",
		Password: "secret123",
	}); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate for username, got %v", err)
	}

	if len(repo.byID) != 1 {
		t.Fatalf("expected exactly 1 user stored, got %d", len(repo.byID))
	}
}

func TestService_Login(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := svc.Login(context.Background(), "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.Username != "ana" {
		t.Fatalf("unexpected user: %+v", u)
	}

	// Error genérico en ambos casos: email inexistente y password mala.
	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ana@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
}
