package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     int    `yaml:"port"`
	DBPath   string `yaml:"dbPath"`
	APIKey   string `yaml:"apiKey"`
	LogLevel string `yaml:"logLevel"`
	// Context assembly
	DefaultModel     string  `yaml:"defaultModel"`
	ImportanceWeight float64 `yaml:"importanceWeight"`
	RecencyWeight    float64 `yaml:"recencyWeight"`
	// Candidate caps: how many records retrieval hands the engine per
	// category. Bounded latency is the caller's job (the engine itself
	// never trims candidate lists).
	MaxMessages  int `yaml:"maxMessages"`
	MaxMemories  int `yaml:"maxMemories"`
	MaxLearnings int `yaml:"maxLearnings"`
	MaxEntities  int `yaml:"maxEntities"`
	// Adapters
	ServerURL string `yaml:"serverURL"`
}

// Load builds the config from defaults, then an optional YAML file named by
// ATTIC_CONFIG, then env-var overrides — later layers win.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             8741,
		DBPath:           "/data/attic.db",
		LogLevel:         "info",
		DefaultModel:     "claude-sonnet-4",
		ImportanceWeight: 0.6,
		RecencyWeight:    0.4,
		MaxMessages:      200,
		MaxMemories:      100,
		MaxLearnings:     50,
		MaxEntities:      50,
		ServerURL:        "http://localhost:8741",
	}

	if path := os.Getenv("ATTIC_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.Port = envInt("PORT", cfg.Port)
	cfg.DBPath = envStr("ATTIC_DB_PATH", cfg.DBPath)
	cfg.APIKey = envStr("ATTIC_API_KEY", cfg.APIKey)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.DefaultModel = envStr("DEFAULT_MODEL", cfg.DefaultModel)
	cfg.ImportanceWeight = envFloat("IMPORTANCE_WEIGHT", cfg.ImportanceWeight)
	cfg.RecencyWeight = envFloat("RECENCY_WEIGHT", cfg.RecencyWeight)
	cfg.MaxMessages = envInt("MAX_MESSAGES", cfg.MaxMessages)
	cfg.MaxMemories = envInt("MAX_MEMORIES", cfg.MaxMemories)
	cfg.MaxLearnings = envInt("MAX_LEARNINGS", cfg.MaxLearnings)
	cfg.MaxEntities = envInt("MAX_ENTITIES", cfg.MaxEntities)
	cfg.ServerURL = envStr("ATTIC_SERVER_URL", cfg.ServerURL)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("ATTIC_DB_PATH must not be empty")
	}
	sum := c.ImportanceWeight + c.RecencyWeight
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("IMPORTANCE_WEIGHT + RECENCY_WEIGHT must equal 1.0, got %f", sum)
	}
	if c.MaxMessages < 1 || c.MaxMemories < 1 || c.MaxLearnings < 1 || c.MaxEntities < 1 {
		return fmt.Errorf("candidate caps must be positive")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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
