package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/persistence"
	"github.com/spec-kit/lead-service/internal/repository"
)

// Prober reports whether a backing store is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

// Store is an opened lead store for the configured driver.
type Store struct {
	Driver string
	Leads  repository.LeadRepository
	Probe  Prober
	close  func()
}

// Close releases the underlying connection.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStore connects to the configured database and, unless disabled, bootstraps its schema.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.BootstrapSchema {
			if err := persistence.EnsurePostgresSchema(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("bootstrap postgres schema: %w", err)
			}
		}
		return &Store{
			Driver: cfg.Driver,
			Leads:  repository.NewLeadRepository(pg.PoolHandle(), nil),
			Probe:  pg,
			close:  pg.Close,
		}, nil

	case config.DriverSQLite:
		db, err := persistence.NewSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if cfg.BootstrapSchema {
			if err := persistence.EnsureSQLiteSchema(ctx, db.DB, logger); err != nil {
				db.Close()
				return nil, fmt.Errorf("bootstrap sqlite schema: %w", err)
			}
		}
		return &Store{
			Driver: cfg.Driver,
			Leads:  repository.NewSQLiteLeadRepository(db.DB, nil),
			Probe:  db,
			close:  db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
