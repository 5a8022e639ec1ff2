package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the configuration for the whole service.
type Config struct {
	Server     ServerConfig
	Completion CompletionConfig
	Store      StoreConfig
	Log        LogConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	completion, err := loadCompletionConfig()
	if err != nil {
		return nil, err
	}

	storeCfg, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:     server,
		Completion: completion,
		Store:      storeCfg,
		Log:        LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "info")},
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
		// Accept ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// CompletionConfig describes the upstream chat-completion API. The API key
// is a required secret; there is deliberately no default for it.
type CompletionConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

func loadCompletionConfig() (CompletionConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("COMPLETION_API_KEY"))
	if apiKey == "" {
		return CompletionConfig{}, fmt.Errorf("COMPLETION_API_KEY is required")
	}

	temperature := float32(0.8)
	if override, err := parseOptionalFloat32Env("COMPLETION_TEMPERATURE"); err != nil {
		return CompletionConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens := 300
	if override, err := parseOptionalIntEnv("COMPLETION_MAX_TOKENS"); err != nil {
		return CompletionConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	timeoutSeconds := 20
	if override, err := parseOptionalIntEnv("COMPLETION_TIMEOUT"); err != nil {
		return CompletionConfig{}, err
	} else if override != nil {
		timeoutSeconds = *override
	}

	return CompletionConfig{
		APIKey:      apiKey,
		BaseURL:     getEnvOrDefault("COMPLETION_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:       getEnvOrDefault("COMPLETION_MODEL", "llama3-70b-8192"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// StoreConfig selects the conversation storage backend.
type StoreConfig struct {
	Driver string
	Path   string
}

func loadStoreConfig() (StoreConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORE_DRIVER", "file"))
	switch driver {
	case "file", "sqlite", "memory":
	default:
		return StoreConfig{}, fmt.Errorf("invalid STORE_DRIVER value %q: want file, sqlite, or memory", driver)
	}

	path := strings.TrimSpace(os.Getenv("STORE_PATH"))
	if path == "" {
		switch driver {
		case "sqlite":
			path = filepath.Join(os.TempDir(), "conversations.db")
		default:
			path = filepath.Join(os.TempDir(), "conversations.json")
		}
	}

	return StoreConfig{Driver: driver, Path: path}, nil
}

// LogConfig controls log output.
type LogConfig struct {
	Level string
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

func parseOptionalFloat32Env(key string) (*float32, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	result := float32(val)
	return &result, nil
}
