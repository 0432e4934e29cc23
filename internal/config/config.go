package config

import "time"

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Import   ImportConfig   `yaml:"import"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// DSN is only required when storage.driver is postgres.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// StorageConfig selects where parsed entries are written.
type StorageConfig struct {
	Driver      string `yaml:"driver"       env:"STORAGE_DRIVER"       env-default:"sqlite"`
	SQLitePath  string `yaml:"sqlite_path"  env:"STORAGE_SQLITE_PATH"  env-default:"./data/jisho.db"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"STORAGE_AUTO_MIGRATE" env-default:"false"`
}

// ImportConfig holds bulk import settings.
type ImportConfig struct {
	Workers   int  `yaml:"workers"    env:"IMPORT_WORKERS"    env-default:"4"`
	BatchSize int  `yaml:"batch_size" env:"IMPORT_BATCH_SIZE" env-default:"200"`
	FailFast  bool `yaml:"fail_fast"  env:"IMPORT_FAIL_FAST"  env-default:"false"`
	DryRun    bool `yaml:"dry_run"    env:"IMPORT_DRY_RUN"    env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
