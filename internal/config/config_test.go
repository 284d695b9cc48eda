package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		DefaultSession: "work",
		BackendURL:     "https://api.example.com",
		RequestTimeout: Duration{30 * time.Second},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultSession != "work" {
		t.Errorf("DefaultSession = %q, want %q", loaded.DefaultSession, "work")
	}
	if loaded.BackendURL != "https://api.example.com" {
		t.Errorf("BackendURL = %q", loaded.BackendURL)
	}
	if loaded.RequestTimeout.Duration != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", loaded.RequestTimeout.Duration)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultSession: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestResolveMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Resolve(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BackendURL != DefaultBackendURL {
		t.Errorf("BackendURL = %q, want %q", cfg.BackendURL, DefaultBackendURL)
	}
	if cfg.Locale != DefaultLocale {
		t.Errorf("Locale = %q, want %q", cfg.Locale, DefaultLocale)
	}
	if cfg.ReadRetries != DefaultReadRetries {
		t.Errorf("ReadRetries = %d, want %d", cfg.ReadRetries, DefaultReadRetries)
	}
	if cfg.RefreshInterval.Duration != DefaultRefreshInterval {
		t.Errorf("RefreshInterval = %v", cfg.RefreshInterval.Duration)
	}
}

func TestResolveEnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, &Config{BackendURL: "http://file", Locale: "en-US"}); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SENTINEL_BACKEND_URL", "http://env")
	t.Setenv("SENTINEL_REQUEST_TIMEOUT", "3s")

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BackendURL != "http://env" {
		t.Errorf("BackendURL = %q, want env override", cfg.BackendURL)
	}
	if cfg.Locale != "en-US" {
		t.Errorf("Locale = %q, want value from file", cfg.Locale)
	}
	if cfg.RequestTimeout.Duration != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want 3s", cfg.RequestTimeout.Duration)
	}
}

func TestResolveReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SENTINEL_LOCALE=en-US\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("SENTINEL_LOCALE") })

	cfg, err := Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Locale != "en-US" {
		t.Errorf("Locale = %q, want en-US from .env", cfg.Locale)
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	if cfg.Location() != time.Local {
		t.Error("unknown timezone should fall back to time.Local")
	}
	cfg.Timezone = "UTC"
	if cfg.Location().String() != "UTC" {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
}
