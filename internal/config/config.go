// Package config provides application configuration management with support for
// environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Backend BackendConfig
	Server  ServerConfig
	Storage StorageConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// BackendConfig holds the remote catalog backend configuration.
type BackendConfig struct {
	// BaseURL is the root of the REST JSON store, e.g. http://localhost:3000.
	BaseURL string
	// Timeout for a single gateway request.
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls to the backend.
	RequestsPerSecond float64
	// Burst is the rate limiter burst size.
	Burst int
}

// ServerConfig holds the admin HTTP facade configuration.
type ServerConfig struct {
	Port         string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StorageConfig holds local persistence configuration.
type StorageConfig struct {
	// DataPath is the directory for the favorites ledger database.
	DataPath string
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables (highest priority).
// 2. .env file.
// 3. Default values (lowest priority).
func Load() (*Config, error) {
	// Load .env file into the environment first; real env vars win.
	loadEnvFile(".env")

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("HERITAGE_ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getEnv("HERITAGE_LOG_LEVEL", "info"),
		},
		Backend: BackendConfig{
			BaseURL:           getEnv("HERITAGE_BACKEND_URL", "http://localhost:3000"),
			Timeout:           getDuration("HERITAGE_BACKEND_TIMEOUT", 15*time.Second),
			RequestsPerSecond: 20,
			Burst:             10,
		},
		Server: ServerConfig{
			Port:         getEnv("HERITAGE_PORT", "8080"),
			CORSOrigins:  splitList(getEnv("HERITAGE_CORS_ORIGINS", "http://localhost:4200")),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Storage: StorageConfig{
			DataPath: getEnv("HERITAGE_DATA_PATH", defaultDataPath()),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend URL must be http(s), got %q", c.Backend.BaseURL)
	}
	if c.Storage.DataPath == "" {
		return fmt.Errorf("data path must not be empty")
	}
	return nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return home + "/.heritage-admin"
}

// getEnv returns the environment variable value or a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration parses a duration environment variable or returns the default.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile reads KEY=VALUE pairs from a file into the process environment.
// Existing environment variables are not overwritten.
func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
}
