package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

admin:
  default_page_size: 25
  max_page_size: 100
  activity_window_days: 14
  request_timeout: "10s"

log:
  level: "debug"
  format: "text"
`

func TestLoad_FromYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Admin.DefaultPageSize != 25 {
		t.Errorf("expected default_page_size 25, got %d", cfg.Admin.DefaultPageSize)
	}
	if cfg.Admin.RequestTimeout != 10*time.Second {
		t.Errorf("expected request_timeout 10s, got %s", cfg.Admin.RequestTimeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestLoad_EnvOnlyWithDefaults(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Admin.DefaultPageSize != 10 {
		t.Errorf("expected default page size 10, got %d", cfg.Admin.DefaultPageSize)
	}
	if cfg.Admin.MaxPageSize != 200 {
		t.Errorf("expected max page size 200, got %d", cfg.Admin.MaxPageSize)
	}
	if cfg.Admin.ActivityWindowDays != 30 {
		t.Errorf("expected activity window 30, got %d", cfg.Admin.ActivityWindowDays)
	}
	if !cfg.Database.MigrateOnStart {
		t.Error("expected migrate_on_start to default to true")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected env override port 7070, got %d", cfg.Server.Port)
	}
}

func TestLoad_MissingDSN(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DSN")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate_AdminBounds(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ADMIN_MAX_PAGE_SIZE", "5") // below default page size 10

	if _, err := Load(); err == nil {
		t.Fatal("expected error for max_page_size < default_page_size")
	}
}

func TestValidate_ActivityWindow(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ADMIN_ACTIVITY_WINDOW_DAYS", "400")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for activity window > 365")
	}
}
