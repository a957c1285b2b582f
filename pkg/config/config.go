// Package config loads the server's environment-variable driven
// configuration: a struct decoded from the process environment via
// envconfig, then validated.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Server holds every environment-variable-driven setting the server
// needs at startup.
type Server struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`

	ListenHost string `envconfig:"LISTEN_HOST" default:"0.0.0.0"`
	ListenPort int    `envconfig:"LISTEN_PORT" default:"8080"`

	SessionExpiryDays int `envconfig:"SESSION_EXPIRY_DAYS" default:"30"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	RateLimitWindowSeconds int `envconfig:"RATE_LIMIT_WINDOW_SECONDS" default:"60"`
	RateLimitMaxAttempts   int `envconfig:"RATE_LIMIT_MAX_ATTEMPTS" default:"10"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON  bool   `envconfig:"LOG_JSON" default:"false"`
}

// Load decodes the Server config from the process environment with the
// "TASKBOOK" prefix (e.g. TASKBOOK_DB_HOST) and validates it.
func Load() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("taskbook", &cfg); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces constraints beyond what envconfig's required tag
// alone checks: required database fields must not be blank, and the
// session expiry must be positive.
func (s *Server) Validate() error {
	if strings.TrimSpace(s.DBHost) == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if strings.TrimSpace(s.DBName) == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if strings.TrimSpace(s.DBUser) == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if s.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if s.SessionExpiryDays <= 0 {
		return fmt.Errorf("SESSION_EXPIRY_DAYS must be positive")
	}
	return nil
}

// ListenAddr returns the host:port pair to bind.
func (s *Server) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.ListenHost, s.ListenPort)
}

// DSN returns the postgres connection URL, understood by both pgxpool
// and golang-migrate's postgres driver.
func (s *Server) DSN() string {
	userInfo := url.UserPassword(s.DBUser, s.DBPassword)
	return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=prefer",
		userInfo.String(), s.DBHost, s.DBPort, s.DBName)
}
