// Package config loads client configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lingualive/lingualive/pkg/core/live"
)

// Config aggregates everything the client binary needs.
type Config struct {
	// GeminiAPIKey authenticates against the Gemini API. Required.
	GeminiAPIKey string

	// Model is the realtime model name.
	Model string

	// Voice is the prebuilt voice for synthesized speech.
	Voice string

	// UserID identifies the learner against the progress backend.
	UserID string

	// BackendURL is the progress service root.
	BackendURL string

	// MetricsAddr, when non-empty, serves Prometheus metrics on this
	// address.
	MetricsAddr string

	// Debug enables verbose logging.
	Debug bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	debug, err := parseBoolEnv("LINGUALIVE_DEBUG", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		GeminiAPIKey: apiKey,
		Model:        getEnvOrDefault("LINGUALIVE_MODEL", live.DefaultModel),
		Voice:        getEnvOrDefault("LINGUALIVE_VOICE", "Kore"),
		UserID:       getEnvOrDefault("LINGUALIVE_USER_ID", "student_123"),
		BackendURL:   getEnvOrDefault("LINGUALIVE_BACKEND_URL", "http://localhost:4000/api/ai"),
		MetricsAddr:  strings.TrimSpace(os.Getenv("LINGUALIVE_METRICS_ADDR")),
		Debug:        debug,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
