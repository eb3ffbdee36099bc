package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound lo devuelven los adapters de storage cuando el id no existe.
	ErrNotFound = errors.New("appointment not found")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	PetID       string
	Date        string
	Time        string
	Description string
}

// Create asume que el caller ya validó existencia de la mascota y
// autorización; acá solo validamos forma y persistimos.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(in.PetID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return Appointment{}, ErrInvalidInput
	}
	tm, err := normalizeTime(in.Time)
	if err != nil {
		return Appointment{}, ErrInvalidInput
	}

	now := s.now()
	a := Appointment{
		ID:          uuid.NewString(),
		PetID:       strings.TrimSpace(in.PetID),
		Date:        date,
		Time:        tm,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// PatchText distingue "campo ausente" de "description": null (limpia).
type PatchText struct {
	Present bool
	Value   *string
}

// UpdateInput: punteros para update parcial real, nil = no tocar.
// Date/Time son obligatorios en el modelo, así que null explícito es 400.
type UpdateInput struct {
	Date        *string
	Time        *string
	Description PatchText
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Appointment, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if in.Date != nil {
		date, err := normalizeDate(*in.Date)
		if err != nil {
			return Appointment{}, ErrInvalidInput
		}
		current.Date = date
	}
	if in.Time != nil {
		tm, err := normalizeTime(*in.Time)
		if err != nil {
			return Appointment{}, ErrInvalidInput
		}
		current.Time = tm
	}
	if in.Description.Present {
		if in.Description.Value == nil {
			current.Description = ""
		} else {
			current.Description = strings.TrimSpace(*in.Description.Value)
		}
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Appointment{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]Appointment, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListByPetIDs(ctx context.Context, petIDs []string) ([]Appointment, error) {
	if len(petIDs) == 0 {
		return []Appointment{}, nil
	}
	return s.repo.ListByPetIDs(ctx, petIDs)
}

func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}

// normalizeTime acepta HH:MM y HH:MM:SS; persiste HH:MM.
func normalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t.Format(timeLayout), nil
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}
