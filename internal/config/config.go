package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BackendURL     string        `yaml:"backend_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`

	DownloadDir     string `yaml:"download_dir"`
	CoordinatesPath string `yaml:"coordinates_path"`
	MetricsAddr     string `yaml:"metrics_addr"`

	DefaultLanguage string `yaml:"default_language"`
	DefaultState    string `yaml:"default_state"`

	GuardBreakerEnabled      bool    `yaml:"guard_breaker_enabled"`
	GuardBreakerMinRequests  uint32  `yaml:"guard_breaker_min_requests"`
	GuardBreakerFailureRatio float64 `yaml:"guard_breaker_failure_ratio"`
	GuardBreakerOpenSeconds  int     `yaml:"guard_breaker_open_seconds"`
	GuardRateLimitPerSecond  float64 `yaml:"guard_rate_limit_per_second"`
}

// Load builds the config from the optional YAML file named by
// TOOLKIT_CONFIG, then applies environment overrides on top.
func Load() Config {
	cfg := defaults()

	if path := os.Getenv("TOOLKIT_CONFIG"); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(raw, &cfg)
		}
	}

	cfg.BackendURL = mustEnv("TOOLKIT_BACKEND_URL", cfg.BackendURL)
	cfg.RequestTimeout = mustEnvDuration("TOOLKIT_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.LogLevel = mustEnv("TOOLKIT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = mustEnv("TOOLKIT_LOG_FORMAT", cfg.LogFormat)
	cfg.DownloadDir = mustEnv("TOOLKIT_DOWNLOAD_DIR", cfg.DownloadDir)
	cfg.CoordinatesPath = mustEnv("TOOLKIT_COORDINATES_PATH", cfg.CoordinatesPath)
	cfg.MetricsAddr = mustEnv("TOOLKIT_METRICS_ADDR", cfg.MetricsAddr)
	cfg.DefaultLanguage = mustEnv("TOOLKIT_DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.DefaultState = mustEnv("TOOLKIT_DEFAULT_STATE", cfg.DefaultState)
	cfg.GuardBreakerEnabled = mustEnvBool("TOOLKIT_GUARD_BREAKER_ENABLED", cfg.GuardBreakerEnabled)
	cfg.GuardRateLimitPerSecond = mustEnvFloat("TOOLKIT_GUARD_RATE_LIMIT", cfg.GuardRateLimitPerSecond)

	return cfg
}

func defaults() Config {
	return Config{
		BackendURL:     "http://localhost:8081",
		RequestTimeout: 120 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",

		DownloadDir: "./downloads",

		DefaultLanguage: "English",
		DefaultState:    "Corporate",

		GuardBreakerEnabled:      false,
		GuardBreakerMinRequests:  10,
		GuardBreakerFailureRatio: 0.5,
		GuardBreakerOpenSeconds:  30,
		GuardRateLimitPerSecond:  0, // 0 means unlimited
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
