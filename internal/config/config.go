package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the chat service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool

	DatabaseURL string
	SQLitePath  string

	BrainAdapterMode string
	BrainAPIURL      string
	BrainAPIKey      string
	BrainModel       string

	MaxHistoryMessages     int
	SummarizationThreshold int
	MessagesToSummarize    int
	MaxMessageLen          int

	RateMaxRequests int
	RateWindow      time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "dante"),
		AllowAnyOrigin:   false,
		DatabaseURL:      stringsTrimSpace("DATABASE_URL"),
		SQLitePath:       stringsTrimSpace("SQLITE_PATH"),
		BrainAdapterMode: envOrDefault("BRAIN_ADAPTER_MODE", "auto"),
		// The original prototype spoke to Groq's OpenAI-compatible endpoint;
		// any compatible base URL works here.
		BrainAPIURL: envOrDefault("BRAIN_API_URL", "https://api.groq.com/openai/v1"),
		BrainAPIKey: stringsTrimSpace("BRAIN_API_KEY"),
		BrainModel:  envOrDefault("BRAIN_MODEL", "llama3-8b-8192"),

		MaxHistoryMessages:     50,
		SummarizationThreshold: 40,
		MessagesToSummarize:    30,
		MaxMessageLen:          4000,
		RateMaxRequests:        10,
		RateWindow:             60 * time.Second,

		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 10 * time.Minute,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	cfg.MaxHistoryMessages, err = intFromEnv("CHAT_MAX_HISTORY_MESSAGES", cfg.MaxHistoryMessages)
	if err != nil {
		return Config{}, err
	}
	cfg.SummarizationThreshold, err = intFromEnv("CHAT_SUMMARIZATION_THRESHOLD", cfg.SummarizationThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.MessagesToSummarize, err = intFromEnv("CHAT_MESSAGES_TO_SUMMARIZE", cfg.MessagesToSummarize)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxMessageLen, err = intFromEnv("CHAT_MAX_MESSAGE_LEN", cfg.MaxMessageLen)
	if err != nil {
		return Config{}, err
	}
	cfg.RateMaxRequests, err = intFromEnv("RATE_MAX_REQUESTS", cfg.RateMaxRequests)
	if err != nil {
		return Config{}, err
	}
	cfg.RateWindow, err = durationFromEnv("RATE_WINDOW", cfg.RateWindow)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.MaxHistoryMessages <= 0 {
		return Config{}, fmt.Errorf("CHAT_MAX_HISTORY_MESSAGES must be positive")
	}
	if cfg.SummarizationThreshold <= 0 {
		return Config{}, fmt.Errorf("CHAT_SUMMARIZATION_THRESHOLD must be positive")
	}
	if cfg.MessagesToSummarize <= 0 {
		return Config{}, fmt.Errorf("CHAT_MESSAGES_TO_SUMMARIZE must be positive")
	}
	if cfg.MessagesToSummarize >= cfg.SummarizationThreshold {
		return Config{}, fmt.Errorf("CHAT_MESSAGES_TO_SUMMARIZE must be below CHAT_SUMMARIZATION_THRESHOLD")
	}
	if cfg.MaxMessageLen <= 0 {
		return Config{}, fmt.Errorf("CHAT_MAX_MESSAGE_LEN must be positive")
	}
	if cfg.RateMaxRequests <= 0 {
		return Config{}, fmt.Errorf("RATE_MAX_REQUESTS must be positive")
	}
	if cfg.RateWindow <= 0 {
		return Config{}, fmt.Errorf("RATE_WINDOW must be positive")
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" && strings.TrimSpace(cfg.SQLitePath) != "" {
		return Config{}, fmt.Errorf("set only one of DATABASE_URL and SQLITE_PATH")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
