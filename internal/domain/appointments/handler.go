package appointments

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pethub/internal/authz"
	"pethub/internal/domain/pets"
	"pethub/internal/domain/users"
	"pethub/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service, usersSvc *users.Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc, petsSvc))
		ar.Get("/", listAppointmentsHandler(svc, petsSvc, usersSvc))
		ar.Get("/{appointmentID}", getAppointmentHandler(svc, petsSvc, usersSvc))
		ar.Put("/{appointmentID}", updateAppointmentHandler(svc))
		ar.Delete("/{appointmentID}", deleteAppointmentHandler(svc))
	})
}

type createAppointmentRequest struct {
	PetID       string `json:"pet_id"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	Description string `json:"description"`
}

type updateAppointmentRequest struct {
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Description *string `json:"description"` // presencia detectada aparte
}

type ownerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type petSummary struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Species     string         `json:"species"`
	OwnerUserID string         `json:"owner_user_id"`
	Owner       *ownerResponse `json:"owner,omitempty"`
}

type appointmentResponse struct {
	ID          string      `json:"id"`
	PetID       string      `json:"pet_id"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Pet         *petSummary `json:"pet,omitempty"`
}

// createAppointmentHandler: la mascota debe existir (404) y pertenecer
// al principal, salvo admin (403 si no).
//
//	@Summary  Crear cita
//	@Tags     appointments
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Success  201 {object} appointmentResponse
//	@Router   /appointments [post]
func createAppointmentHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Existencia primero (404), autorización después (403).
		ownerUserID, err := petsSvc.OwnerOf(r.Context(), req.PetID)
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}
		if !authz.CanCreateAppointment(authz.FromClaims(claims), ownerUserID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			PetID:       req.PetID,
			Date:        req.Date,
			Time:        req.Time,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message":     "appointment created",
			"appointment": toAppointmentResponse(a, nil),
		})
	}
}

// listAppointmentsHandler: admin ve todas (con mascota y dueño);
// user normal solo las citas de sus mascotas.
//
//	@Summary  Listar citas
//	@Tags     appointments
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} map[string][]appointmentResponse
//	@Router   /appointments [get]
func listAppointmentsHandler(svc *Service, petsSvc *pets.Service, usersSvc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		principal := authz.FromClaims(claims)
		_, all := authz.OwnerFilter(principal)

		var (
			items []Appointment
			err   error
		)
		if all {
			items, err = svc.ListAll(r.Context())
		} else {
			// Citas del usuario = citas de sus mascotas.
			var owned []pets.Pet
			owned, err = petsSvc.ListByOwner(r.Context(), principal.UserID)
			if err == nil {
				petIDs := make([]string, 0, len(owned))
				for _, p := range owned {
					petIDs = append(petIDs, p.ID)
				}
				items, err = svc.ListByPetIDs(r.Context(), petIDs)
			}
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a, resolvePet(r, petsSvc, usersSvc, a.PetID, all)))
		}

		writeJSON(w, http.StatusOK, map[string][]appointmentResponse{"appointments": out})
	}
}

// getAppointmentHandler: 404 si no existe; dueño de la mascota o admin.
//
//	@Summary  Detalle de cita
//	@Tags     appointments
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} appointmentResponse
//	@Router   /appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service, petsSvc *pets.Service, usersSvc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id := chi.URLParam(r, "appointmentID")
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}

		// Cadena de propiedad: cita -> mascota -> dueño.
		ownerUserID, err := petsSvc.OwnerOf(r.Context(), a.PetID)
		if err != nil {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}
		if !authz.CanReadAppointment(authz.FromClaims(claims), ownerUserID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		writeJSON(w, http.StatusOK, map[string]appointmentResponse{
			"appointment": toAppointmentResponse(a, resolvePet(r, petsSvc, usersSvc, a.PetID, true)),
		})
	}
}

// updateAppointmentHandler: solo admin. El dueño crea y lee sus citas
// pero no las modifica ("owners propose, staff confirm").
//
//	@Summary  Actualizar cita (admin)
//	@Tags     appointments
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} appointmentResponse
//	@Router   /appointments/{appointmentID} [put]
func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Rol antes que existencia, igual que el resto del sistema
		// para mutaciones admin-only.
		if !authz.CanManageAppointment(authz.FromClaims(claims)) {
			writeError(w, http.StatusForbidden, "only admins can update appointments")
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var req updateAppointmentRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
		}

		desc := PatchText{}
		if v, exists := raw["description"]; exists {
			desc.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					writeError(w, http.StatusBadRequest, "description must be a string or null")
					return
				}
				desc.Value = &s
			}
		}

		id := chi.URLParam(r, "appointmentID")
		updated, err := svc.Update(r.Context(), id, UpdateInput{
			Date:        req.Date,
			Time:        req.Time,
			Description: desc,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, err.Error())
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "appointment not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "appointment updated",
			"appointment": toAppointmentResponse(updated, nil),
		})
	}
}

// deleteAppointmentHandler: solo admin, borrado físico.
//
//	@Summary  Eliminar cita (admin)
//	@Tags     appointments
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} map[string]string
//	@Router   /appointments/{appointmentID} [delete]
func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if !authz.CanManageAppointment(authz.FromClaims(claims)) {
			writeError(w, http.StatusForbidden, "only admins can delete appointments")
			return
		}

		id := chi.URLParam(r, "appointmentID")
		if _, err := svc.GetByID(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "appointment deleted"})
	}
}

// resolvePet arma la proyección de la mascota para el response;
// el dueño se incluye solo en vistas admin / detalle. Tolera mascotas
// borradas devolviendo nil.
func resolvePet(r *http.Request, petsSvc *pets.Service, usersSvc *users.Service, petID string, withOwner bool) *petSummary {
	p, err := petsSvc.GetByID(r.Context(), petID)
	if err != nil {
		return nil
	}

	out := &petSummary{
		ID:          p.ID,
		Name:        p.Name,
		Species:     p.Species,
		OwnerUserID: p.OwnerUserID,
	}

	if withOwner {
		if u, err := usersSvc.GetByID(r.Context(), p.OwnerUserID); err == nil {
			out.Owner = &ownerResponse{
				ID:       u.ID,
				Username: u.Username,
				Email:    u.Email,
			}
		}
	}

	return out
}

func toAppointmentResponse(a Appointment, pet *petSummary) appointmentResponse {
	return appointmentResponse{
		ID:          a.ID,
		PetID:       a.PetID,
		Date:        a.Date,
		Time:        a.Time,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Pet:         pet,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
