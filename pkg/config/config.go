package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `yaml:"server_port"`
	LogLevel   string `yaml:"log_level"`

	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresDB       string `yaml:"postgres_db"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// FetchStrategy selects how page content is obtained: "service" calls
	// the remote content-fetch API, "browser" renders pages locally.
	FetchStrategy        string `yaml:"fetch_strategy"`
	FetchServiceURL      string `yaml:"fetch_service_url"`
	FetchServiceKey      string `yaml:"fetch_service_api_key"`
	ExtractionServiceURL string `yaml:"extraction_service_url"`
	ExtractionServiceKey string `yaml:"extraction_service_api_key"`

	BatchSize                  int `yaml:"batch_size"`
	ItemDelayMS                int `yaml:"item_delay_ms"`
	ExternalCallTimeoutSeconds int `yaml:"external_call_timeout_seconds"`
	RunLockTTLSeconds          int `yaml:"run_lock_ttl_seconds"`
	PageLoadTimeoutSeconds     int `yaml:"page_load_timeout_seconds"`

	MinioEndpoint  string `yaml:"minio_endpoint"`
	MinioAccessKey string `yaml:"minio_access_key"`
	MinioSecretKey string `yaml:"minio_secret_key"`
	MinioBucket    string `yaml:"minio_bucket"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"`
}

// ItemDelay is the pause between successive items in a batch.
func (c *Config) ItemDelay() time.Duration {
	return time.Duration(c.ItemDelayMS) * time.Millisecond
}

// ExternalCallTimeout bounds each fetch and extraction call.
func (c *Config) ExternalCallTimeout() time.Duration {
	return time.Duration(c.ExternalCallTimeoutSeconds) * time.Second
}

// RunLockTTL bounds how long a crashed invocation can hold the run lock.
func (c *Config) RunLockTTL() time.Duration {
	return time.Duration(c.RunLockTTLSeconds) * time.Second
}

// PageLoadTimeout bounds a single headless-browser page load.
func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutSeconds) * time.Second
}

// Load builds the configuration. An optional YAML file (CONFIG_FILE) supplies
// base values; environment variables override it field by field.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:                 "8080",
		LogLevel:                   "info",
		PostgresHost:               "localhost",
		PostgresPort:               "5432",
		PostgresUser:               "user",
		PostgresPassword:           "password",
		PostgresDB:                 "events",
		RedisAddr:                  "localhost:6379",
		FetchStrategy:              "service",
		BatchSize:                  10,
		ItemDelayMS:                3000,
		ExternalCallTimeoutSeconds: 60,
		RunLockTTLSeconds:          600,
		PageLoadTimeoutSeconds:     60,
		MinioBucket:                "page-snapshots",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.PostgresHost = getEnv("POSTGRES_HOST", cfg.PostgresHost)
	cfg.PostgresPort = getEnv("POSTGRES_PORT", cfg.PostgresPort)
	cfg.PostgresUser = getEnv("POSTGRES_USER", cfg.PostgresUser)
	cfg.PostgresPassword = getEnv("POSTGRES_PASSWORD", cfg.PostgresPassword)
	cfg.PostgresDB = getEnv("POSTGRES_DB", cfg.PostgresDB)

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvAsInt("REDIS_DB", cfg.RedisDB)

	cfg.FetchStrategy = getEnv("FETCH_STRATEGY", cfg.FetchStrategy)
	cfg.FetchServiceURL = getEnv("FETCH_SERVICE_URL", cfg.FetchServiceURL)
	cfg.FetchServiceKey = getEnv("FETCH_SERVICE_API_KEY", cfg.FetchServiceKey)
	cfg.ExtractionServiceURL = getEnv("EXTRACTION_SERVICE_URL", cfg.ExtractionServiceURL)
	cfg.ExtractionServiceKey = getEnv("EXTRACTION_SERVICE_API_KEY", cfg.ExtractionServiceKey)

	cfg.BatchSize = getEnvAsInt("PIPELINE_BATCH_SIZE", cfg.BatchSize)
	cfg.ItemDelayMS = getEnvAsInt("PIPELINE_ITEM_DELAY_MS", cfg.ItemDelayMS)
	cfg.ExternalCallTimeoutSeconds = getEnvAsInt("EXTERNAL_CALL_TIMEOUT_SECONDS", cfg.ExternalCallTimeoutSeconds)
	cfg.RunLockTTLSeconds = getEnvAsInt("RUN_LOCK_TTL_SECONDS", cfg.RunLockTTLSeconds)
	cfg.PageLoadTimeoutSeconds = getEnvAsInt("PAGE_LOAD_TIMEOUT_SECONDS", cfg.PageLoadTimeoutSeconds)

	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", cfg.MinioEndpoint)
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinioAccessKey)
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinioSecretKey)
	cfg.MinioBucket = getEnv("MINIO_BUCKET", cfg.MinioBucket)
	cfg.MinioUseSSL = getEnvAsBool("MINIO_USE_SSL", cfg.MinioUseSSL)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
