package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// DSN opcional: si viene, gana sobre los campos individuales.
	DSN string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// Load lee la configuración desde env vars con defaults de desarrollo.
// El .env (si existe) lo carga main con godotenv antes de llamar acá.
func Load() (*Config, error) {
	jwtExpiration, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "1h"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid JWT_EXPIRATION: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "pethub"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			DSN:      getEnv("DB_DSN", ""),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Expiration: jwtExpiration,
		},
	}

	return cfg, nil
}

// DSNString arma la cadena de conexión para pgx (formato keyword/value).
func (d DatabaseConfig) DSNString() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
