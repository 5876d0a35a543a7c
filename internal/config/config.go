package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything cmd/main.go needs to wire the service.
// Values come from the environment (godotenv loads .env first).
type Config struct {
	Port        string
	DatabaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// AIRequestTimeout bounds a single completion call. The upstream
	// call is the only unbounded-latency operation in the pipeline, so
	// it always runs under this deadline.
	AIRequestTimeout time.Duration

	MaxReviewChars int
}

const (
	defaultPort             = "8080"
	defaultModel            = "gpt-4o-mini"
	defaultAIRequestTimeout = 30 * time.Second
	defaultMaxReviewChars   = 5000
)

func Load() Config {
	cfg := Config{
		Port:             getenv("PORT", defaultPort),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getenv("OPENAI_MODEL", defaultModel),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		AIRequestTimeout: defaultAIRequestTimeout,
		MaxReviewChars:   defaultMaxReviewChars,
	}

	if v := os.Getenv("AI_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.AIRequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("MAX_REVIEW_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxReviewChars = n
		}
	}

	return cfg
}

// Validate checks what the process cannot run without. A missing OpenAI
// key is deliberately NOT fatal here: the service boots and serves
// degraded content so /api/health can report the misconfiguration.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.Port == "" {
		return errors.New("PORT is empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
