package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.BatchSize != 10 {
		t.Errorf("Expected default batch size 10, got %d", cfg.BatchSize)
	}
	if cfg.ItemDelay() != 3000*time.Millisecond {
		t.Errorf("Expected default item delay 3s, got %v", cfg.ItemDelay())
	}
	if cfg.FetchStrategy != "service" {
		t.Errorf("Expected default fetch strategy service, got %q", cfg.FetchStrategy)
	}
	if cfg.RunLockTTL() != 10*time.Minute {
		t.Errorf("Expected default run lock TTL 10m, got %v", cfg.RunLockTTL())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PIPELINE_BATCH_SIZE", "25")
	t.Setenv("PIPELINE_ITEM_DELAY_MS", "500")
	t.Setenv("EXTRACTION_SERVICE_API_KEY", "secret")
	t.Setenv("FETCH_STRATEGY", "browser")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.BatchSize != 25 {
		t.Errorf("Expected batch size 25, got %d", cfg.BatchSize)
	}
	if cfg.ItemDelay() != 500*time.Millisecond {
		t.Errorf("Expected item delay 500ms, got %v", cfg.ItemDelay())
	}
	if cfg.ExtractionServiceKey != "secret" {
		t.Errorf("Expected extraction key from env, got %q", cfg.ExtractionServiceKey)
	}
	if cfg.FetchStrategy != "browser" {
		t.Errorf("Expected browser strategy, got %q", cfg.FetchStrategy)
	}
}

func TestLoadConfigFileWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server_port: \"9090\"\nbatch_size: 5\nextraction_service_url: https://extract.test\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PIPELINE_BATCH_SIZE", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("Expected port from file, got %q", cfg.ServerPort)
	}
	if cfg.ExtractionServiceURL != "https://extract.test" {
		t.Errorf("Expected extraction URL from file, got %q", cfg.ExtractionServiceURL)
	}
	// Env wins over the file.
	if cfg.BatchSize != 3 {
		t.Errorf("Expected batch size 3 from env, got %d", cfg.BatchSize)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("Expected an error for a missing config file")
	}
}
