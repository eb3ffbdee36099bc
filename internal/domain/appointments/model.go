package appointments

import "time"

// Appointment es una cita para una mascota. No tiene campo de dueño:
// el dueño efectivo se deriva siempre de Pet(PetID).OwnerUserID.
type Appointment struct {
	ID    string
	PetID string

	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	Description string // opcional

	CreatedAt time.Time
	UpdatedAt time.Time
}
