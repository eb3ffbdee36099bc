package pets

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pethub/internal/authz"
	"pethub/internal/domain/users"
	"pethub/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, usersSvc *users.Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc, usersSvc))
		pr.Get("/{petID}", getPetHandler(svc, usersSvc))
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Age     *int   `json:"age"`
}

type updatePetRequest struct {
	// Punteros para update parcial real: nil = no tocar.
	Name    *string `json:"name"`
	Species *string `json:"species"`
	Breed   *string `json:"breed"`
	Age     *int    `json:"age"` // presencia detectada aparte, ver raw map
}

type ownerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type petResponse struct {
	ID          string         `json:"id"`
	OwnerUserID string         `json:"owner_user_id"`
	Name        string         `json:"name"`
	Species     string         `json:"species"`
	Breed       string         `json:"breed,omitempty"`
	Age         *int           `json:"age,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Owner       *ownerResponse `json:"owner,omitempty"`
}

// createPetHandler: cualquier autenticado; el owner es siempre el principal,
// nunca un campo del body.
//
//	@Summary  Registrar mascota
//	@Tags     pets
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Success  201 {object} petResponse
//	@Router   /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Age:     req.Age,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "pet registered",
			"pet":     toPetResponse(p, nil),
		})
	}
}

// listPetsHandler: admin ve todas las mascotas con su dueño;
// un user normal solo las propias.
//
//	@Summary  Listar mascotas
//	@Tags     pets
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} map[string][]petResponse
//	@Router   /pets [get]
func listPetsHandler(svc *Service, usersSvc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		principal := authz.FromClaims(claims)

		var (
			items []Pet
			err   error
		)
		ownerID, all := authz.OwnerFilter(principal)
		if all {
			items, err = svc.ListAll(r.Context())
		} else {
			items, err = svc.ListByOwner(r.Context(), ownerID)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			var owner *ownerResponse
			if all {
				// proyección del dueño solo en la vista admin
				owner = resolveOwner(r, usersSvc, p.OwnerUserID)
			}
			out = append(out, toPetResponse(p, owner))
		}

		writeJSON(w, http.StatusOK, map[string][]petResponse{"pets": out})
	}
}

// getPetHandler: 404 si no existe, 403 si no es admin ni dueño.
//
//	@Summary  Perfil de mascota
//	@Tags     pets
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} petResponse
//	@Router   /pets/{petID} [get]
func getPetHandler(svc *Service, usersSvc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		if !authz.CanAccessPet(authz.FromClaims(claims), p.OwnerUserID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		owner := resolveOwner(r, usersSvc, p.OwnerUserID)
		writeJSON(w, http.StatusOK, map[string]petResponse{"pet": toPetResponse(p, owner)})
	}
}

// updatePetHandler aplica update parcial por presencia de campo:
// lo que no viene en el body conserva su valor anterior.
//
//	@Summary  Actualizar mascota
//	@Tags     pets
//	@Accept   json
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} petResponse
//	@Router   /pets/{petID} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")
		current, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		if !authz.CanAccessPet(authz.FromClaims(claims), current.OwnerUserID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		// Decodificamos a map primero para detectar presencia de "age"
		// (permite "age": null = limpiar, distinto de no enviado).
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var req updatePetRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
		}

		age := PatchAge{}
		if v, exists := raw["age"]; exists {
			age.Present = true
			if string(v) != "null" {
				var n int
				if err := json.Unmarshal(v, &n); err != nil {
					writeError(w, http.StatusBadRequest, "age must be an integer or null")
					return
				}
				age.Value = &n
			}
		}

		updated, err := svc.Update(r.Context(), petID, UpdateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Age:     age,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, err.Error())
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "pet not found")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "pet updated",
			"pet":     toPetResponse(updated, nil),
		})
	}
}

// deletePetHandler: borrado físico, sin tombstone.
//
//	@Summary  Eliminar mascota
//	@Tags     pets
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} map[string]string
//	@Router   /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			writeError(w, http.StatusNotFound, "pet not found")
			return
		}

		if !authz.CanAccessPet(authz.FromClaims(claims), p.OwnerUserID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := svc.Delete(r.Context(), petID); err != nil {
			if err == ErrNotFound {
				writeError(w, http.StatusNotFound, "pet not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "pet deleted"})
	}
}

// resolveOwner tolera dueños no encontrados (devuelve nil y el response
// sale sin owner) para no romper listados por datos inconsistentes.
func resolveOwner(r *http.Request, usersSvc *users.Service, ownerUserID string) *ownerResponse {
	u, err := usersSvc.GetByID(r.Context(), ownerUserID)
	if err != nil {
		return nil
	}
	return &ownerResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

func toPetResponse(p Pet, owner *ownerResponse) petResponse {
	return petResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Owner:       owner,
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
