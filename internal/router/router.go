package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pethub/docs" // registro del spec swagger generado

	mem "pethub/internal/adapters/storage/memory"
	pg "pethub/internal/adapters/storage/postgres"
	"pethub/internal/domain/appointments"
	"pethub/internal/domain/pets"
	"pethub/internal/domain/users"
	"pethub/internal/middleware"
	"pethub/internal/platform/logger"
	"pethub/internal/ports/auth"
)

type Options struct {
	// AuthVerifier puede ser nil (modo dev: X-Debug-User-ID / X-Debug-Role).
	AuthVerifier auth.AuthVerifier

	// TokenIssuer lo usan register/login. En modo dev puede ser nil,
	// pero entonces esos endpoints devuelven 500 al emitir.
	TokenIssuer auth.TokenIssuer

	// Si viene DB, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		usersRepo users.Repository
		petsRepo  pets.Repository
		apptsRepo appointments.Repository
	)

	if opts.DB != nil {
		usersRepo = pg.NewUsersRepo(opts.DB)
		petsRepo = pg.NewPetsRepo(opts.DB)
		apptsRepo = pg.NewAppointmentsRepo(opts.DB)
	} else {
		usersRepo = mem.NewUsersRepo()
		petsRepo = mem.NewPetsRepo()
		apptsRepo = mem.NewAppointmentsRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(usersRepo)
	petsSvc := pets.NewService(petsRepo)
	apptsSvc := appointments.NewService(apptsRepo)

	// Rutas por módulo, bajo /api como el frontend espera
	r.Route("/api", func(api chi.Router) {
		users.RegisterRoutes(api, usersSvc, opts.TokenIssuer)
		pets.RegisterRoutes(api, petsSvc, usersSvc)
		appointments.RegisterRoutes(api, apptsSvc, petsSvc, usersSvc)
	})

	return r
}
