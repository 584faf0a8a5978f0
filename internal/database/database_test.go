package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/config"
	"github.com/pageza/recipeshare/internal/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBDriver = "sqlite"
	cfg.DBPath = ":memory:"

	db, err := Open(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, RunMigrations(db))
	// second run is a no-op
	require.NoError(t, RunMigrations(db))

	user := models.User{Email: "test@example.com", Username: "test", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)

	assert.NoError(t, HealthCheck(context.Background(), db))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBDriver = "mysql"
	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestSQLMigrationsAreOrdered(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "0001_extensions.sql", entries[0].Name())
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name    string
		set     func(*config.Config)
		addr    string
		db      int
		wantErr error
	}{
		{
			name:    "disabled",
			set:     func(*config.Config) {},
			wantErr: ErrRedisDisabled,
		},
		{
			name: "host and default port",
			set: func(c *config.Config) {
				c.RedisHost = "cache"
				c.RedisPort = ""
				c.RedisDB = 2
			},
			addr: "cache:6379",
			db:   2,
		},
		{
			name: "url wins",
			set: func(c *config.Config) {
				c.RedisHost = "ignored"
				c.RedisURL = "redis://:pw@redis.test:6380/3"
			},
			addr: "redis.test:6380",
			db:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.RedisHost, cfg.RedisURL = "", ""
			tt.set(cfg)

			opts, err := RedisOptions(cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, opts.Addr)
			assert.Equal(t, tt.db, opts.DB)
			assert.Equal(t, redisIOTimeout, opts.ReadTimeout)
		})
	}

	cfg := config.Defaults()
	cfg.RedisURL = "http://not-redis"
	_, err := RedisOptions(cfg)
	assert.Error(t, err)
}
