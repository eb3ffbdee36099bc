package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"pethub/internal/adapters/auth/jwtauth"
	"pethub/internal/adapters/storage/postgres"
	"pethub/internal/config"
	"pethub/internal/platform/logger"
	"pethub/internal/router"
)

// @title        PetHub API
// @version      1.0
// @description  Backend de gestión de mascotas y citas con acceso por roles.
// @BasePath     /api
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// .env opcional; en producción las vars vienen del entorno
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	appLog := logger.NewFromEnv()

	var jwtSvc *jwtauth.Service
	if cfg.JWT.Secret != "" {
		jwtSvc, err = jwtauth.New(cfg.JWT.Secret, cfg.JWT.Expiration)
		if err != nil {
			log.Fatalf("jwt error: %v", err)
		}
	} else {
		// Sin secret no hay tokens: solo queda el modo dev por headers.
		appLog.Warn("JWT_SECRET not set, running in dev auth mode", nil)
	}

	var db *sql.DB
	db, err = postgres.Open(cfg.Database.DSNString())
	switch {
	case err == nil:
		defer db.Close()
		appLog.Info("connected to postgres", map[string]any{"db": cfg.Database.Name})
	case cfg.Server.Env == "development":
		// En dev, sin Postgres arrancamos igual con repos in-memory.
		appLog.Warn("postgres unavailable, using in-memory storage", map[string]any{"error": err.Error()})
		db = nil
	default:
		log.Fatalf("database error: %v", err)
	}

	opts := router.Options{
		DB:     db,
		Logger: appLog,
	}
	if jwtSvc != nil {
		opts.AuthVerifier = jwtSvc
		opts.TokenIssuer = jwtSvc
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Server.Env})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
