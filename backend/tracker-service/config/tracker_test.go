package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadTrackerConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	os.Unsetenv("STORAGE_BACKEND")
	cfg := LoadTrackerConfig()
	if cfg.StorageBackend != BackendFile {
		t.Fatalf("expected file backend, got %q", cfg.StorageBackend)
	}
	if cfg.SnapshotKey != "projectManagerData" {
		t.Fatalf("expected default snapshot key, got %q", cfg.SnapshotKey)
	}
}

func TestLoadTrackerConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STORE_BREAKER_TIMEOUT_SECONDS", "12")
	cfg := LoadTrackerConfig()
	if cfg.Port != "9090" || cfg.RedisDB != 3 || cfg.StoreBreakerTimeout != 12*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestGetIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	if got := GetInt("REDIS_DB", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TRACKER_TEST_VALUE=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRACKER_TEST_VALUE", "")
	os.Unsetenv("TRACKER_TEST_VALUE")
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("TRACKER_TEST_VALUE"); got != "from-file" {
		t.Fatalf("expected from-file, got %q", got)
	}
}
