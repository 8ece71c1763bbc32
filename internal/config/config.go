package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the service configuration.
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	backend, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Backend: backend,
		Session: loadSessionConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// BackendConfig describes the CivicNavigator backend the engine talks to.
type BackendConfig struct {
	BaseURL string
	Token   string
	Role    string
	Timeout time.Duration
}

func loadBackendConfig() (BackendConfig, error) {
	timeoutSeconds := 15
	if override, err := parseOptionalIntEnv("CIVIC_HTTP_TIMEOUT"); err != nil {
		return BackendConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return BackendConfig{}, fmt.Errorf("CIVIC_HTTP_TIMEOUT must be positive, got %d", *override)
		}
		timeoutSeconds = *override
	}

	return BackendConfig{
		BaseURL: getEnvOrDefault("CIVIC_API_BASE_URL", "http://127.0.0.1:8000"),
		Token:   strings.TrimSpace(os.Getenv("CIVIC_API_TOKEN")),
		Role:    getEnvOrDefault("CIVIC_ROLE", "resident"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// SessionConfig describes where conversation state is persisted. An empty
// StatePath selects the in-memory store.
type SessionConfig struct {
	StatePath string
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		StatePath: strings.TrimSpace(os.Getenv("CIVIC_STATE_FILE")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
