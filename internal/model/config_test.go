package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loading missing config: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "tasks.db" {
		t.Errorf("expected default db path tasks.db, got %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Log.Level)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte(`
server:
  host: 127.0.0.1
  port: 9000
database:
  path: /var/lib/taskd/tasks.db
log:
  level: debug
`)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Errorf("expected addr 127.0.0.1:9000, got %q", cfg.Server.Addr())
	}
	if cfg.Database.Path != "/var/lib/taskd/tasks.db" {
		t.Errorf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("unexpected log level %q", cfg.Log.Level)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TASKD_SERVER_PORT", "9100")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected env-overridden port 9100, got %d", cfg.Server.Port)
	}
}
