// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	OutputDir   string
	Database    DatabaseConfig
	Model       ModelConfig
	Audit       AuditConfig
	Log         LogConfig
}

// DatabaseConfig describes the catalog database a run connects to.
type DatabaseConfig struct {
	Server         string
	Port           int // 0 = dialect default
	Name           string
	Username       string
	Password       string
	Driver         string // ODBC-style name or Go driver identifier
	Authentication string // fed-auth mode for Azure SQL, e.g. ActiveDirectoryInteractive
	Encrypt        bool
}

// ModelConfig holds the Azure OpenAI deployment settings.
type ModelConfig struct {
	Endpoint    string
	APIKey      string
	APIVersion  string
	Deployment  string
	Temperature float64
}

// AuditConfig controls the SQLite audit log of completed runs.
type AuditConfig struct {
	Enabled bool
	DBPath  string
}

// LogConfig controls slog output.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		OutputDir:   getEnv("OUTPUT_DIR", "./data/procedures"),
		Database: DatabaseConfig{
			Server:         getEnv("SERVER", ""),
			Port:           getEnvInt("DB_PORT", 0),
			Name:           getEnv("DATABASE", ""),
			Username:       getEnv("ACC_USERNAME", ""),
			Password:       getEnv("DB_PASSWORD", ""),
			Driver:         getEnv("DRIVER", ""),
			Authentication: getEnv("DB_AUTHENTICATION", ""),
			Encrypt:        getEnvBool("DB_ENCRYPT", true),
		},
		Model: ModelConfig{
			Endpoint:    getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:      getEnv("AZURE_OPENAI_API_KEY", ""),
			APIVersion:  getEnv("AZURE_OPENAI_API_VERSION", ""),
			Deployment:  getEnv("AZURE_GPT_MODEL", ""),
			Temperature: getEnvFloat("MODEL_TEMPERATURE", 0),
		},
		Audit: AuditConfig{
			Enabled: getEnvBool("AUDIT_ENABLED", true),
			DBPath:  getEnv("AUDIT_DB_PATH", "./data/audit.db"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR cannot be empty")
	}
	if c.Database.Server == "" {
		return fmt.Errorf("SERVER cannot be empty")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DATABASE cannot be empty")
	}
	if c.Database.Username == "" {
		return fmt.Errorf("ACC_USERNAME cannot be empty")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("DRIVER cannot be empty")
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 0 and 65535")
	}
	if c.Model.Endpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT cannot be empty")
	}
	if c.Model.APIKey == "" {
		return fmt.Errorf("AZURE_OPENAI_API_KEY cannot be empty")
	}
	if c.Model.APIVersion == "" {
		return fmt.Errorf("AZURE_OPENAI_API_VERSION cannot be empty")
	}
	if c.Model.Deployment == "" {
		return fmt.Errorf("AZURE_GPT_MODEL cannot be empty")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("MODEL_TEMPERATURE must be between 0 and 2")
	}
	if c.Audit.Enabled && c.Audit.DBPath == "" {
		return fmt.Errorf("AUDIT_DB_PATH cannot be empty when AUDIT_ENABLED is set")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AllowedOrigins returns the CORS origins for the HTTP API.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{strings.TrimRight(c.FrontendURL, "/")}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}
