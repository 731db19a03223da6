package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "prostore-events-bridge" {
		t.Errorf("app name = %q", cfg.AppName)
	}
	if cfg.PollInterval != 300*time.Second {
		t.Errorf("poll interval = %v, want 300s", cfg.PollInterval)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("http timeout = %v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.StorageType != "bbolt" {
		t.Errorf("storage type = %q, want bbolt", cfg.StorageType)
	}
	if cfg.StorageTTL != 30*24*time.Hour {
		t.Errorf("storage ttl = %v, want 720h", cfg.StorageTTL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("STORE_URL", "https://shop.example.com")
	t.Setenv("STORE_USER_ID", "admin-1")
	t.Setenv("STORE_PRIVATE_TOKEN", "hunter2")
	t.Setenv("POLL_INTERVAL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreURL != "https://shop.example.com" {
		t.Errorf("store url = %q", cfg.StoreURL)
	}
	if cfg.StoreUserID != "admin-1" {
		t.Errorf("store user id = %q", cfg.StoreUserID)
	}
	if cfg.StorePrivateToken != "hunter2" {
		t.Errorf("store private token = %q", cfg.StorePrivateToken)
	}
	if cfg.PollInterval != time.Minute {
		t.Errorf("poll interval = %v, want 1m", cfg.PollInterval)
	}
}

func TestLoadRejectsNonPositiveIntervals(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "0")
	if _, err := Load(); err == nil {
		t.Error("poll_interval 0: expected error")
	}

	t.Setenv("POLL_INTERVAL", "300")
	t.Setenv("STORAGE_TTL_SECONDS", "-1")
	if _, err := Load(); err == nil {
		t.Error("negative storage_ttl_seconds: expected error")
	}
}
