package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that everything the process cannot run without is
// actually set. Production is stricter: secrets must be present, and the
// JWT secret must not be a known development value.
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	required := map[string]string{
		"SERVER_PORT": cfg.ServerPort,
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"DB_USER":     cfg.DBUser,
		"DB_NAME":     cfg.DBName,
		"JWT_SECRET":  cfg.JWTSecret,
	}
	for field, value := range required {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "is required in production (env or db_password secret)"})
		}
		if cfg.JWTSecret == "dev-secret" || len(cfg.JWTSecret) < 16 {
			errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be a strong value in production"})
		}
		if cfg.DBSSLMode == "disable" {
			errs = append(errs, ValidationError{Field: "DB_SSL_MODE", Message: "must not be disable in production"})
		}
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
