// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gurkanbulca/todo/internal/database"
	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/pkg/auth"
)

// Storage backends
const (
	StorageJSON = "json"
	StorageSQL  = "sql"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Security   SecurityConfig
	Validation ValidationConfig
}

type ServerConfig struct {
	GRPCPort        string
	HTTPPort        string
	Environment     string
	AutoMigrate     bool
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	Backend string
	DataDir string
}

type DatabaseConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

type SecurityConfig struct {
	PasswordMinLength      int
	PasswordRequireUpper   bool
	PasswordRequireLower   bool
	PasswordRequireNumber  bool
	PasswordRequireSpecial bool
	BcryptCost             int
	AdminUsernames         []string
	RecentEventsLimit      int
}

type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
	MaxTags              int
	MaxTagLength         int
	MaxUsernameLength    int
	MaxNameLength        int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			GRPCPort:        getEnv("GRPC_PORT", "50051"),
			HTTPPort:        getEnv("HTTP_PORT", "8080"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AutoMigrate:     getEnvAsBool("AUTO_MIGRATE", true),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageJSON)),
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", database.DriverSQLite),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "todo"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		JWT: JWTConfig{
			AccessSecret:         getEnv("JWT_ACCESS_SECRET", getEnv("JWT_SECRET", "dev-access-secret-change-in-production")),
			RefreshSecret:        getEnv("JWT_REFRESH_SECRET", getEnv("JWT_SECRET", "dev-refresh-secret-change-in-production")),
			AccessTokenDuration:  getEnvAsDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("JWT_REFRESH_TOKEN_DURATION", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			PasswordMinLength:      getEnvAsInt("PASSWORD_MIN_LENGTH", 8),
			PasswordRequireUpper:   getEnvAsBool("PASSWORD_REQUIRE_UPPER", true),
			PasswordRequireLower:   getEnvAsBool("PASSWORD_REQUIRE_LOWER", true),
			PasswordRequireNumber:  getEnvAsBool("PASSWORD_REQUIRE_NUMBER", true),
			PasswordRequireSpecial: getEnvAsBool("PASSWORD_REQUIRE_SPECIAL", false),
			BcryptCost:             getEnvAsInt("BCRYPT_COST", 12),
			AdminUsernames:         getEnvAsList("ADMIN_USERNAMES", nil),
			RecentEventsLimit:      getEnvAsInt("SECURITY_RECENT_EVENTS", 100),
		},
		Validation: ValidationConfig{
			MaxTitleLength:       getEnvAsInt("VALIDATION_MAX_TITLE_LENGTH", 200),
			MaxDescriptionLength: getEnvAsInt("VALIDATION_MAX_DESCRIPTION_LENGTH", 5000),
			MaxTags:              getEnvAsInt("VALIDATION_MAX_TAGS", 20),
			MaxTagLength:         getEnvAsInt("VALIDATION_MAX_TAG_LENGTH", 50),
			MaxUsernameLength:    getEnvAsInt("VALIDATION_MAX_USERNAME_LENGTH", 50),
			MaxNameLength:        getEnvAsInt("VALIDATION_MAX_NAME_LENGTH", 100),
		},
	}, nil
}

// ValidateConfig rejects settings the server cannot start with
func (c *Config) ValidateConfig() error {
	switch c.Storage.Backend {
	case StorageJSON:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the json storage backend")
		}
	case StorageSQL:
		switch c.Database.Driver {
		case database.DriverSQLite:
			if c.Database.DSN == "" {
				return fmt.Errorf("DB_DSN is required for the sqlite3 driver")
			}
		case database.DriverPostgres, database.DriverPgx:
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite3, postgres or pgx)", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q (want json or sql)", c.Storage.Backend)
	}

	if c.JWT.AccessTokenDuration <= 0 || c.JWT.RefreshTokenDuration <= 0 {
		return fmt.Errorf("JWT token durations must be positive")
	}
	if c.JWT.AccessTokenDuration >= c.JWT.RefreshTokenDuration {
		return fmt.Errorf("JWT access token duration must be shorter than refresh token duration")
	}
	if !c.IsDevelopment() && (strings.HasPrefix(c.JWT.AccessSecret, "dev-") || strings.HasPrefix(c.JWT.RefreshSecret, "dev-")) {
		return fmt.Errorf("JWT secrets must be set outside development")
	}

	if c.Security.PasswordMinLength < 4 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be at least 4")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if c.Validation.MaxTitleLength <= 0 || c.Validation.MaxDescriptionLength <= 0 ||
		c.Validation.MaxTags <= 0 || c.Validation.MaxTagLength <= 0 {
		return fmt.Errorf("validation limits must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// UsersFile is the JSON user registry used by the json storage backend
func (c *Config) UsersFile() string {
	return filepath.Join(c.Storage.DataDir, "users.json")
}

// ToDatabaseConfig converts to the connection settings of the database package
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:          c.Database.Driver,
		DSN:             c.Database.DSN,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		DBName:          c.Database.DBName,
		SSLMode:         c.Database.SSLMode,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		Debug:           c.IsDevelopment(),
	}
}

// ToPasswordPolicy converts the security section to a password policy
func (c *Config) ToPasswordPolicy() auth.PasswordPolicy {
	return auth.PasswordPolicy{
		MinLength:      c.Security.PasswordMinLength,
		RequireUpper:   c.Security.PasswordRequireUpper,
		RequireLower:   c.Security.PasswordRequireLower,
		RequireNumber:  c.Security.PasswordRequireNumber,
		RequireSpecial: c.Security.PasswordRequireSpecial,
	}
}

// ToValidationConfig converts to the request validation settings
func (c *Config) ToValidationConfig() *middleware.ValidationConfig {
	return &middleware.ValidationConfig{
		MaxTitleLength:       c.Validation.MaxTitleLength,
		MaxDescriptionLength: c.Validation.MaxDescriptionLength,
		MaxTags:              c.Validation.MaxTags,
		MaxTagLength:         c.Validation.MaxTagLength,
		MaxUsernameLength:    c.Validation.MaxUsernameLength,
		MaxNameLength:        c.Validation.MaxNameLength,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15m", "24h")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}

// getEnvAsList reads a comma separated list, e.g. ADMIN_USERNAMES=alice,bob
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}

	var values []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	return values
}
