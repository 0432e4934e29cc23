package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/jisho-backend/internal/adapter/postgres"
	"github.com/heartmarshall/jisho-backend/internal/adapter/postgres/dictentry"
	"github.com/heartmarshall/jisho-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/jisho-backend/internal/config"
	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/meaning"
)

// Store is the persistence surface used by the CLI. Both the PostgreSQL
// repository and the SQLite store implement it.
type Store interface {
	SaveBatch(ctx context.Context, entries []domain.DictionaryEntry) error
	RecordFailures(ctx context.Context, failures []domain.ParseFailure) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.DictionaryEntry, error)
	GetByDocumentID(ctx context.Context, documentID string) (domain.DictionaryEntry, error)
	Search(ctx context.Context, filter domain.EntryFilter) ([]domain.DictionaryEntry, error)
	// RunInTx runs fn in one transaction; the store methods above join it
	// when called with the context fn receives.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// postgresStore pairs the entry repository with the transaction manager of
// the same pool.
type postgresStore struct {
	*dictentry.Repo
	*postgres.TxManager
}

var (
	_ Store = postgresStore{}
	_ Store = (*sqlite.Store)(nil)
)

// OpenStore connects the storage backend selected by cfg.Storage. The
// returned close function releases it.
func OpenStore(ctx context.Context, cfg *config.Config, c meaning.Classifier, log *slog.Logger) (Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if cfg.Storage.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.Database.DSN, log); err != nil {
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage opened", slog.String("driver", config.DriverPostgres))
		store := postgresStore{
			Repo:      dictentry.New(pool, c),
			TxManager: postgres.NewTxManager(pool),
		}
		return store, pool.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath, c)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage opened",
			slog.String("driver", config.DriverSQLite),
			slog.String("path", cfg.Storage.SQLitePath),
		)
		return store, func() { _ = store.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
