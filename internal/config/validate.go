package config

import (
	"fmt"
	"strings"
)

const maxBatchSize = 5000

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.Storage.Driver == DriverPostgres && strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required when storage.driver is %q", DriverPostgres)
	}

	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error (got %q)", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}

func (s *StorageConfig) validate() error {
	switch s.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("driver must be %q or %q (got %q)", DriverPostgres, DriverSQLite, s.Driver)
	}
	return nil
}

func (i *ImportConfig) validate() error {
	if i.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", i.Workers)
	}
	if i.BatchSize <= 0 || i.BatchSize > maxBatchSize {
		return fmt.Errorf("batch_size must be between 1 and %d (got %d)", maxBatchSize, i.BatchSize)
	}
	return nil
}
