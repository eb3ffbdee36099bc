// Package authz concentra las reglas de acceso sobre mascotas y citas.
// La propiedad de una cita no está denormalizada: se resuelve caminando
// la cadena Appointment -> Pet -> owner, y acá solo llega el ownerUserID
// ya resuelto. El orden lo deciden los handlers: primero existencia (404),
// después autorización (403).
package authz

import "pethub/internal/ports/auth"

// Principal es la identidad autenticada adjunta al request.
type Principal struct {
	UserID string
	Role   auth.Role
}

func FromClaims(c auth.Claims) Principal {
	return Principal{UserID: c.UserID, Role: c.Role}
}

func (p Principal) isAdmin() bool {
	return p.Role == auth.RoleAdmin
}

// CanAccessPet decide read/update/delete sobre una mascota:
// admin, o dueño de la mascota.
func CanAccessPet(p Principal, petOwnerUserID string) bool {
	return p.isAdmin() || (p.UserID != "" && p.UserID == petOwnerUserID)
}

// CanCreateAppointment: la cita se crea sobre una mascota ya existente;
// admin, o dueño de esa mascota.
func CanCreateAppointment(p Principal, petOwnerUserID string) bool {
	return CanAccessPet(p, petOwnerUserID)
}

// CanReadAppointment: admin, o dueño de la mascota de la cita.
func CanReadAppointment(p Principal, petOwnerUserID string) bool {
	return CanAccessPet(p, petOwnerUserID)
}

// CanManageAppointment decide update/delete de citas: solo admin.
// Asimetría deliberada ("owners propose, staff confirm"): el dueño puede
// crear y leer sus citas pero no modificarlas ni borrarlas.
func CanManageAppointment(p Principal) bool {
	return p.isAdmin()
}

// OwnerFilter define el alcance de los listados:
// admin ve todo (all=true); el resto solo lo propio.
func OwnerFilter(p Principal) (ownerUserID string, all bool) {
	if p.isAdmin() {
		return "", true
	}
	return p.UserID, false
}
