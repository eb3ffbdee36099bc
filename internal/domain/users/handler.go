package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pethub/internal/middleware"
	"pethub/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc, issuer))
		ar.Post("/login", loginHandler(svc, issuer))
		ar.Get("/profile", profileHandler(svc))
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // opcional
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

// registerHandler crea la cuenta y devuelve token para loguear de una.
//
//	@Summary  Registrar usuario
//	@Tags     auth
//	@Accept   json
//	@Produce  json
//	@Success  201 {object} authResponse
//	@Router   /auth/register [post]
func registerHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput, ErrDuplicate:
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		token, err := issueToken(issuer, u)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, authResponse{
			Message: "user registered",
			User:    toUserResponse(u),
			Token:   token,
		})
	}
}

// loginHandler valida credenciales y emite token.
//
//	@Summary  Iniciar sesión
//	@Tags     auth
//	@Accept   json
//	@Produce  json
//	@Success  200 {object} authResponse
//	@Router   /auth/login [post]
func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch err {
			case ErrInvalidCredentials:
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		token, err := issueToken(issuer, u)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, authResponse{
			Message: "login successful",
			User:    toUserResponse(u),
			Token:   token,
		})
	}
}

// profileHandler devuelve el usuario del token.
//
//	@Summary  Perfil del usuario autenticado
//	@Tags     auth
//	@Produce  json
//	@Security BearerAuth
//	@Success  200 {object} map[string]userResponse
//	@Router   /auth/profile [get]
func profileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(u)})
	}
}

// issueToken tolera issuer nil (modo dev sin JWT_SECRET) con un error
// claro en lugar de un panic.
func issueToken(issuer auth.TokenIssuer, u User) (string, error) {
	if issuer == nil {
		return "", errors.New("token issuer not configured")
	}
	return issuer.Issue(u.ID, u.Username, u.Role)
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
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
