// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORAGE_BACKEND", "DATA_DIR", "DB_DRIVER", "ADMIN_USERNAMES", "HTTP_PORT", "JWT_SECRET",
		"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET", "ENVIRONMENT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageJSON, cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "50051", cfg.Server.GRPCPort)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Empty(t, cfg.Security.AdminUsernames)
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.ValidateConfig())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "SQL")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("ADMIN_USERNAMES", " alice, ,bob ")
	t.Setenv("PASSWORD_REQUIRE_SPECIAL", "true")
	t.Setenv("JWT_ACCESS_TOKEN_DURATION", "5m")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageSQL, cfg.Storage.Backend)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Security.AdminUsernames)
	assert.True(t, cfg.Security.PasswordRequireSpecial)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, 12, cfg.Security.BcryptCost)

	policy := cfg.ToPasswordPolicy()
	assert.True(t, policy.RequireSpecial)
	assert.Equal(t, 8, policy.MinLength)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, true},
		{"json without dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"sqlite without dsn", func(c *Config) { c.Storage.Backend = StorageSQL }, true},
		{"sqlite with dsn", func(c *Config) {
			c.Storage.Backend = StorageSQL
			c.Database.DSN = "file:todo.db"
		}, false},
		{"postgres", func(c *Config) {
			c.Storage.Backend = StorageSQL
			c.Database.Driver = "postgres"
		}, false},
		{"unknown driver", func(c *Config) {
			c.Storage.Backend = StorageSQL
			c.Database.Driver = "mysql"
		}, true},
		{"access longer than refresh", func(c *Config) { c.JWT.AccessTokenDuration = 30 * 24 * time.Hour }, true},
		{"dev secrets in production", func(c *Config) { c.Server.Environment = "production" }, true},
		{"production with secrets", func(c *Config) {
			c.Server.Environment = "production"
			c.JWT.AccessSecret = "s1"
			c.JWT.RefreshSecret = "s2"
		}, false},
		{"bcrypt cost too high", func(c *Config) { c.Security.BcryptCost = 40 }, true},
		{"zero title limit", func(c *Config) { c.Validation.MaxTitleLength = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			err := cfg.ValidateConfig()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func testConfig() *Config {
	return &Config{
		Server:  ServerConfig{Environment: "development"},
		Storage: StorageConfig{Backend: StorageJSON, DataDir: "data"},
		Database: DatabaseConfig{
			Driver: "sqlite3",
		},
		JWT: JWTConfig{
			AccessSecret:         "dev-access",
			RefreshSecret:        "dev-refresh",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
		},
		Security: SecurityConfig{
			PasswordMinLength: 8,
			BcryptCost:        12,
		},
		Validation: ValidationConfig{
			MaxTitleLength:       200,
			MaxDescriptionLength: 5000,
			MaxTags:              20,
			MaxTagLength:         50,
		},
	}
}
