package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `yaml:"-"`

	// Server configuration
	ServerPort    string   `yaml:"server_port"`
	ServerHost    string   `yaml:"server_host"`
	CORSOrigins   []string `yaml:"cors_origins"`
	SecureCookies bool     `yaml:"secure_cookies"`
	LogLevel      string   `yaml:"log_level"`

	// Database configuration. DBDriver is "postgres" or "sqlite".
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_ssl_mode"`
	DBPath     string `yaml:"db_path"`

	// Redis configuration. Both empty disables Redis.
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisURL      string `yaml:"redis_url"`

	// JWT configuration
	JWTSecret string `yaml:"jwt_secret"`

	// TheMealDB
	MealDBURL string `yaml:"mealdb_url"`

	// Image storage. An empty bucket disables uploads.
	S3Bucket  string `yaml:"s3_bucket"`
	AWSRegion string `yaml:"aws_region"`
	// S3Private serves images through presigned URLs
	S3Private bool `yaml:"s3_private"`

	// Google sign-in. An empty client id disables it.
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	GoogleRedirectURL  string `yaml:"google_redirect_url"`
}

// RedisEnabled reports whether a Redis server is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// GoogleEnabled reports whether Google sign-in is configured
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

// Address returns the listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

// Defaults returns the configuration used before any file or environment
// value is applied
func Defaults() *Config {
	return &Config{
		ServerPort: "8080",
		ServerHost: "0.0.0.0",
		LogLevel:   "info",
		DBDriver:   "postgres",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBName:     "recipeshare",
		DBSSLMode:  "disable",
		DBPath:     "recipeshare.db",
		MealDBURL:  "https://www.themealdb.com/api/json/v1/1",
		AWSRegion:  "us-east-1",
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file at
// path and then the environment
func LoadConfig(path string) (*Config, error) {
	env := GetEnvironment()
	cfg := Defaults()
	cfg.Environment = env

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	// Load configuration based on environment
	switch env {
	case CI:
		loadEnv(cfg)
	case Development, Test:
		loadEnv(cfg)
		loadSecrets(cfg)
	case Production:
		loadEnv(cfg)
		if err := loadProdSecrets(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

// loadEnv overlays plain environment variables
func loadEnv(cfg *Config) {
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.LogLevel, "RECIPESHARE_LOG_LEVEL")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.MealDBURL, "MEALDB_URL")
	setString(&cfg.S3Bucket, "S3_BUCKET_NAME")
	setString(&cfg.AWSRegion, "AWS_REGION")
	setString(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.GoogleRedirectURL, "GOOGLE_REDIRECT_URL")

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		cfg.SecureCookies, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("S3_PRIVATE"); v != "" {
		cfg.S3Private, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
}

// sensitive maps Docker secret names to the fields they fill
func sensitive(cfg *Config) map[string]*string {
	return map[string]*string{
		"db_password":          &cfg.DBPassword,
		"jwt_secret":           &cfg.JWTSecret,
		"redis_password":       &cfg.RedisPassword,
		"google_client_secret": &cfg.GoogleClientSecret,
	}
}

// loadSecrets fills sensitive values from Docker secrets when present
func loadSecrets(cfg *Config) {
	for name, dst := range sensitive(cfg) {
		if v := readSecret(name); v != "" {
			*dst = v
		}
	}
}

// loadProdSecrets requires sensitive values to come from Docker secrets
func loadProdSecrets(cfg *Config) error {
	loadSecrets(cfg)
	if readSecret("jwt_secret") == "" {
		return fmt.Errorf("jwt_secret secret is required in production")
	}
	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
