package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	secrets := t.TempDir()
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", secrets)
	t.Setenv("JWT_SECRET", "test-secret")
	return secrets
}

func TestLoadConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "meals")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "meals", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	setupEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "https://www.themealdb.com/api/json/v1/1", cfg.MealDBURL)
	assert.False(t, cfg.GoogleEnabled())
}

func TestGeneratePresignedURL(t *testing.T) {
	setupEnv(t)
	t.Setenv("S3_BUCKET_NAME", "recipes")
	t.Setenv("S3_PRIVATE", "true")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.S3Private)

	s3cfg := &S3Config{
		Client: s3.New(s3.Options{
			Region: "us-east-1",
			Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}, nil
			}),
		}),
		BucketName: cfg.S3Bucket,
		Region:     "us-east-1",
	}

	signed, err := s3cfg.GeneratePresignedURL(context.Background(), "recipe-images/pie.png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, signed, "recipes")
	assert.Contains(t, signed, "recipe-images/pie.png")
	assert.Contains(t, signed, "X-Amz-Signature=")
	assert.Contains(t, signed, "X-Amz-Expires=3600")
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "recipeshare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_port: "9000"
db_driver: sqlite
db_path: /tmp/recipes.db
log_level: debug
`), 0o600))
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/recipes.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestSecretsOverrideEnv(t *testing.T) {
	secrets := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(secrets, "jwt_secret"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		fields []string
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing jwt", func(c *Config) { c.JWTSecret = "" }, []string{"jwt_secret"}},
		{"bad driver", func(c *Config) { c.DBDriver = "mysql" }, []string{"db_driver"}},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, []string{"log_level"}},
		{"google without secret", func(c *Config) {
			c.GoogleClientID = "id"
			c.GoogleRedirectURL = "http://localhost/auth/google/callback"
		}, []string{"google_client_secret"}},
		{"production sqlite", func(c *Config) {
			c.Environment = Production
			c.DBDriver = "sqlite"
			c.SecureCookies = true
		}, []string{"db_driver"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Environment = Development
			cfg.JWTSecret = "secret"
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			var got []string
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("prod"))
	assert.Equal(t, Test, ParseEnvironment("TEST"))
	assert.Equal(t, Development, ParseEnvironment(""))
}
