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

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	lines := make([]string, len(e))
	for i, v := range e {
		lines[i] = v.Error()
	}
	return strings.Join(lines, "\n")
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "silent": true,
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("server_port", "is required")
	}
	if cfg.JWTSecret == "" {
		add("jwt_secret", "is required")
	}
	if cfg.MealDBURL == "" {
		add("mealdb_url", "is required")
	}
	if !validLogLevels[cfg.LogLevel] {
		add("log_level", fmt.Sprintf("unknown level %q", cfg.LogLevel))
	}

	switch cfg.DBDriver {
	case "postgres":
		for field, v := range map[string]string{
			"db_host": cfg.DBHost, "db_port": cfg.DBPort, "db_user": cfg.DBUser, "db_name": cfg.DBName,
		} {
			if v == "" {
				add(field, "is required for postgres")
			}
		}
	case "sqlite":
		if cfg.DBPath == "" {
			add("db_path", "is required for sqlite")
		}
		if cfg.Environment == Production {
			add("db_driver", "sqlite is not allowed in production")
		}
	default:
		add("db_driver", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.GoogleEnabled() {
		if cfg.GoogleClientSecret == "" {
			add("google_client_secret", "is required when google_client_id is set")
		}
		if cfg.GoogleRedirectURL == "" {
			add("google_redirect_url", "is required when google_client_id is set")
		}
	}

	if cfg.Environment == Production {
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			add("db_password", "secret is required")
		}
		if !cfg.SecureCookies {
			add("secure_cookies", "must be enabled in production")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
