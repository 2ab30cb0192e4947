package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port                string        `yaml:"port"`
	BackendURL          string        `yaml:"backend_url"`
	JWTSecret           string        `yaml:"jwt_secret"`
	SessionSecret       string        `yaml:"session_secret"`
	DatabaseURL         string        `yaml:"database_url"`
	AllowedOrigins      []string      `yaml:"allowed_origins"`
	SessionTTL          time.Duration `yaml:"session_ttl"`
	KitchenPollInterval time.Duration `yaml:"kitchen_poll_interval"`
}

// Load builds the configuration from defaults, the YAML file named by
// POS_CONFIG_FILE (if any) and environment variables, later sources winning.
// An empty DatabaseURL keeps sessions in memory.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                "8081",
		BackendURL:          "http://localhost:8080",
		JWTSecret:           "dev-secret-change-in-production",
		SessionSecret:       "dev-session-secret-change-in-production",
		AllowedOrigins:      []string{"http://localhost:3000", "http://localhost:5173"},
		SessionTTL:          12 * time.Hour,
		KitchenPollInterval: 30 * time.Second,
	}

	if path := os.Getenv("POS_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.BackendURL = strings.TrimRight(getEnv("BACKEND_URL", cfg.BackendURL), "/")
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", cfg.SessionTTL); err != nil {
		return nil, err
	}
	if cfg.KitchenPollInterval, err = getDuration("KITCHEN_POLL_INTERVAL", cfg.KitchenPollInterval); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
