package appointments

import "context"

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	ListAll(ctx context.Context) ([]Appointment, error)

	// ListByPetIDs alcanza para el scoping por dueño: las citas de un
	// usuario son las citas de sus mascotas.
	ListByPetIDs(ctx context.Context, petIDs []string) ([]Appointment, error)
}
