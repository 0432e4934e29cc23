package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
log:
  level: "debug"
  format: "text"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

storage:
  driver: "postgres"
  auto_migrate: true

import:
  workers: 8
  batch_size: 500
  fail_fast: true
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("database.max_conn_lifetime = %v, want 1h (default)", cfg.Database.MaxConnLifetime)
	}

	// Storage
	if cfg.Storage.Driver != DriverPostgres {
		t.Errorf("storage.driver = %q, want %q", cfg.Storage.Driver, DriverPostgres)
	}
	if !cfg.Storage.AutoMigrate {
		t.Error("storage.auto_migrate should be true")
	}

	// Import
	if cfg.Import.Workers != 8 {
		t.Errorf("import.workers = %d, want 8", cfg.Import.Workers)
	}
	if cfg.Import.BatchSize != 500 {
		t.Errorf("import.batch_size = %d, want 500", cfg.Import.BatchSize)
	}
	if !cfg.Import.FailFast {
		t.Error("import.fail_fast should be true")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("IMPORT_WORKERS", "2")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Import.Workers != 2 {
		t.Errorf("import.workers = %d, want 2 (ENV override)", cfg.Import.Workers)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	// Unset CONFIG_PATH so the fallback kicks in and the file is just absent.
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("storage.driver = %q, want %q (default)", cfg.Storage.Driver, DriverSQLite)
	}
	if cfg.Storage.SQLitePath != "./data/jisho.db" {
		t.Errorf("storage.sqlite_path = %q (default)", cfg.Storage.SQLitePath)
	}
	if cfg.Import.Workers != 4 {
		t.Errorf("import.workers = %d, want 4 (default)", cfg.Import.Workers)
	}
	if cfg.Import.BatchSize != 200 {
		t.Errorf("import.batch_size = %d, want 200 (default)", cfg.Import.BatchSize)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log.format = %q, want json (default)", cfg.Log.Format)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	path := writeYAML(t, t.TempDir(), "storage:\n  sqlite_path: \"/tmp/other.db\"\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.SQLitePath != "/tmp/other.db" {
		t.Errorf("storage.sqlite_path = %q, want /tmp/other.db", cfg.Storage.SQLitePath)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_PostgresWithoutDSN(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_DRIVER", "postgres")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for postgres driver without DSN")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "valid postgres", mutate: func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Database.DSN = "postgres://localhost/db"
		}},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mysql" }, wantErr: "storage: driver"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, wantErr: "database.dsn"},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.SQLitePath = " " }, wantErr: "sqlite_path"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log: level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log: format"},
		{name: "zero workers", mutate: func(c *Config) { c.Import.Workers = 0 }, wantErr: "workers"},
		{name: "zero batch size", mutate: func(c *Config) { c.Import.BatchSize = 0 }, wantErr: "batch_size"},
		{name: "batch size too large", mutate: func(c *Config) { c.Import.BatchSize = maxBatchSize + 1 }, wantErr: "batch_size"},
		{name: "batch size at max", mutate: func(c *Config) { c.Import.BatchSize = maxBatchSize }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: "json"},
		Storage: StorageConfig{Driver: DriverSQLite, SQLitePath: "./data/jisho.db"},
		Import:  ImportConfig{Workers: 4, BatchSize: 200},
	}
}
