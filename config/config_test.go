package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTP.Addr)
		assert.Equal(t, DriverPostgres, cfg.DB.Driver)
		assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL)
		assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenTTL)
		assert.Equal(t, StorageLocal, cfg.Logo.Storage)
		assert.Equal(t, "/images/logo", cfg.Logo.URLPrefix)
		assert.Equal(t, 10, cfg.Limits.Home)
		assert.Equal(t, 10, cfg.Limits.Dividends)
		assert.Empty(t, cfg.Auth.AdminLogins)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("DB_DSN", "/tmp/stocks.db")
		t.Setenv("ACCESS_TOKEN_TTL", "15m")
		t.Setenv("ADMIN_LOGINS", "root, Admin ,")
		t.Setenv("HOME_LIMIT", "3")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, cfg.DB.Driver)
		assert.Equal(t, "/tmp/stocks.db", cfg.DB.DSN)
		assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
		assert.Equal(t, []string{"root", "Admin"}, cfg.Auth.AdminLogins)
		assert.True(t, cfg.Auth.IsAdminLogin("Admin"))
		assert.False(t, cfg.Auth.IsAdminLogin("admin"))
		assert.False(t, cfg.Auth.IsAdminLogin("ROOT"))
		assert.False(t, cfg.Auth.IsAdminLogin("alice"))
		assert.Equal(t, 3, cfg.Limits.Home)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DB:     DBConfig{Driver: DriverPostgres},
			Auth:   AuthConfig{JWTSecret: "s"},
			Logo:   LogoConfig{Storage: StorageLocal, MaxBytes: 1},
			Limits: LimitsConfig{Home: 1, Dividends: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "oracle" }, wantErr: true},
		{name: "sqlite without dsn", mutate: func(c *Config) { c.DB.Driver = DriverSQLite }, wantErr: true},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Logo.Storage = StorageS3 }, wantErr: true},
		{name: "zero limit", mutate: func(c *Config) { c.Limits.Home = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "stocks", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=stocks port=5432 sslmode=disable TimeZone=UTC", c.PostgresDSN())

	c.DSN = "postgres://override"
	assert.Equal(t, "postgres://override", c.PostgresDSN())
}
