package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	KurrentDB KurrentDBConfig
	Auth      AuthConfig
	AI        AIConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// KurrentDBConfig holds configuration for KurrentDB (EventStoreDB).
type KurrentDBConfig struct {
	// Host is the KurrentDB server hostname
	Host string
	// Port is the gRPC port (default 2113)
	Port int
	// Insecure disables TLS (for development)
	Insecure bool
	// Username for authentication (optional)
	Username string
	// Password for authentication (optional)
	Password string
	// Enabled controls whether complaint events are streamed at all
	Enabled bool
}

type AuthConfig struct {
	JWTSecret string
}

// AIConfig holds configuration for the text-classification capability.
type AIConfig struct {
	// URL of the text-generation endpoint
	URL string
	// APIKey for the remote model
	APIKey string
	// Model name requested from the endpoint
	Model string
	// Timeout bounds a single classification call; on expiry the engine
	// falls back to the keyword rules
	Timeout time.Duration
	// RequestsPerSecond caps outbound calls to the model endpoint
	RequestsPerSecond float64
	Enabled           bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("PORT", 8080),
			Env:  envString("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     envString("DB_HOST", "localhost"),
			Port:     envInt("DB_PORT", 5432),
			User:     envString("DB_USER", "civicdesk"),
			Password: envString("DB_PASSWORD", "civicdesk"),
			Database: envString("DB_NAME", "civicdesk"),
			SSLMode:  envString("DB_SSLMODE", "disable"),
		},
		KurrentDB: KurrentDBConfig{
			Host:     envString("KURRENTDB_HOST", "localhost"),
			Port:     envInt("KURRENTDB_PORT", 2113),
			Insecure: envBool("KURRENTDB_INSECURE", true),
			Username: envString("KURRENTDB_USERNAME", ""),
			Password: envString("KURRENTDB_PASSWORD", ""),
			Enabled:  envBool("KURRENTDB_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret: envString("JWT_SECRET", ""),
		},
		AI: AIConfig{
			URL:               envString("AI_URL", ""),
			APIKey:            envString("AI_API_KEY", ""),
			Model:             envString("AI_MODEL", "gemini-pro"),
			Timeout:           envDuration("AI_TIMEOUT", 5*time.Second),
			RequestsPerSecond: envFloat("AI_RPS", 2),
		},
	}

	cfg.AI.Enabled = cfg.AI.URL != "" && cfg.AI.APIKey != ""

	if cfg.Server.Env == "production" && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
