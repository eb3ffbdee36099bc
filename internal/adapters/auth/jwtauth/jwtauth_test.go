package jwtauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"pethub/internal/ports/auth"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	token, err := svc.Issue("user-1", "ana", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "ana" || claims.Role != auth.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	svc, _ := New("test-secret", time.Hour)
	other, _ := New("other-secret", time.Hour)

	good, err := svc.Issue("user-1", "ana", auth.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"tampered payload", tamper(good)},
		{"wrong secret", mustIssue(t, other, "user-1")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Verify(context.Background(), tc.token); err == nil {
				t.Fatalf("expected error for %s token", tc.name)
			}
		})
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc, _ := New("test-secret", time.Hour)

	issuedAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue("user-1", "ana", auth.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Dentro de la hora sigue válido.
	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	if _, err := svc.Verify(context.Background(), token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	// Expiración absoluta a la hora, sin refresh.
	svc.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	if _, err := svc.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected expired token error")
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	if _, err := New("  ", time.Hour); err != ErrNoSecret {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func mustIssue(t *testing.T, svc *Service, userID string) string {
	t.Helper()
	token, err := svc.Issue(userID, "ana", auth.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

// tamper cambia un carácter del payload manteniendo formato JWT.
func tamper(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return token + "x"
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
