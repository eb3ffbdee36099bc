package pets

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]Pet, error) {
	out := make([]Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func seedPet(t *testing.T, svc *Service) Pet {
	t.Helper()
	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:    "Rex",
		Species: "dog",
		Breed:   "labrador",
		Age:     intPtr(3),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func TestService_Create_SetsOwnerAndTimestamps(t *testing.T) {
	svc := NewService(newTestRepo())

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p := seedPet(t, svc)
	if p.OwnerUserID != "owner-1" {
		t.Fatalf("expected owner-1, got %s", p.OwnerUserID)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name  string
		owner string
		in    CreateInput
	}{
		{"missing owner", "", CreateInput{Name: "Rex", Species: "dog"}},
		{"missing name", "owner-1", CreateInput{Species: "dog"}},
		{"missing species", "owner-1", CreateInput{Name: "Rex"}},
		{"negative age", "owner-1", CreateInput{Name: "Rex", Species: "dog", Age: intPtr(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.owner, tc.in); err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Update_PartialByPresence(t *testing.T) {
	svc := NewService(newTestRepo())
	p := seedPet(t, svc)

	// Solo name: el resto conserva su valor.
	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{
		Name: strPtr("Max"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Max" {
		t.Fatalf("expected name Max, got %s", updated.Name)
	}
	if updated.Species != "dog" || updated.Breed != "labrador" {
		t.Fatalf("untouched fields must keep value: %+v", updated)
	}
	if updated.Age == nil || *updated.Age != 3 {
		t.Fatalf("age must keep value, got %v", updated.Age)
	}
	if updated.OwnerUserID != "owner-1" {
		t.Fatalf("owner is immutable")
	}
}

func TestService_Update_ZeroAndEmptyAreRealValues(t *testing.T) {
	svc := NewService(newTestRepo())
	p := seedPet(t, svc)

	// age: 0 es un update válido, no un "no enviado".
	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{
		Age: PatchAge{Present: true, Value: intPtr(0)},
	})
	if err != nil {
		t.Fatalf("Update age=0: %v", err)
	}
	if updated.Age == nil || *updated.Age != 0 {
		t.Fatalf("expected age 0, got %v", updated.Age)
	}

	// breed: "" explícito limpia la raza.
	updated, err = svc.Update(context.Background(), p.ID, UpdateInput{
		Breed: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Update breed=\"\": %v", err)
	}
	if updated.Breed != "" {
		t.Fatalf("expected empty breed, got %q", updated.Breed)
	}
}

func TestService_Update_NullAgeClears(t *testing.T) {
	svc := NewService(newTestRepo())
	p := seedPet(t, svc)

	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{
		Age: PatchAge{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Age != nil {
		t.Fatalf("expected cleared age, got %v", *updated.Age)
	}
}

func TestService_Update_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	p := seedPet(t, svc)

	if _, err := svc.Update(context.Background(), p.ID, UpdateInput{Name: strPtr("  ")}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if _, err := svc.Update(context.Background(), p.ID, UpdateInput{
		Age: PatchAge{Present: true, Value: intPtr(-2)},
	}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for negative age, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "missing", UpdateInput{Name: strPtr("X")}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DeleteAndOwnerOf(t *testing.T) {
	svc := NewService(newTestRepo())
	p := seedPet(t, svc)

	owner, err := svc.OwnerOf(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("OwnerOf: %v", err)
	}
	if owner != "owner-1" {
		t.Fatalf("expected owner-1, got %s", owner)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), p.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), p.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
