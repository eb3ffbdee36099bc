package pets

import "time"

// Pet representa una mascota registrada. OwnerUserID es inmutable:
// se fija al crear con el principal autenticado y ningún update lo toca.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species string // libre: "dog", "cat", "bird", ...
	Breed   string // opcional
	Age     *int   // opcional

	CreatedAt time.Time
	UpdatedAt time.Time
}
