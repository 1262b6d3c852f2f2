package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.APIConfigured() || cfg.RealtimeConfigured() {
		t.Errorf("defaults should leave endpoints empty: %+v", cfg)
	}
	if cfg.RequestTimeoutSec != 15 {
		t.Errorf("timeout = %d, want 15", cfg.RequestTimeoutSec)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_base_url: https://api.example.com/\nws_url: wss://api.example.com/ws\nrequest_timeout_sec: 30\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("base url = %q (trailing slash should be trimmed)", cfg.APIBaseURL)
	}
	if cfg.WSURL != "wss://api.example.com/ws" {
		t.Errorf("ws url = %q", cfg.WSURL)
	}
	if cfg.RequestTimeoutSec != 30 {
		t.Errorf("timeout = %d, want 30", cfg.RequestTimeoutSec)
	}
	if !cfg.APIConfigured() || !cfg.RealtimeConfigured() {
		t.Errorf("endpoints should report configured")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: https://file.example.com\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DELIVERYTRACK_API_BASE_URL", "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://env.example.com" {
		t.Errorf("base url = %q, want env override", cfg.APIBaseURL)
	}
}
