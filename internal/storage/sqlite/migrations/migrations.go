// Package migrations keeps the SQLite schema of the run history.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/farmer/internal/log"
)

//go:embed sql/*.sql
var historySQL embed.FS

// HistorySchema owns the runs and run_steps tables of a farmer database.
type HistorySchema struct {
	db     *sql.DB
	logger log.Logger
}

// NewHistorySchema returns the run history schema of db.
func NewHistorySchema(db *sql.DB, logger log.Logger) (*HistorySchema, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = log.Noop
	}

	return &HistorySchema{
		db:     db,
		logger: logger.WithValues(log.Kv{"svc": "storage.HistorySchema"}),
	}, nil
}

// Migrate brings the run history tables to the latest version and returns it.
// A database already at the latest version is left untouched.
func (h *HistorySchema) Migrate(ctx context.Context) (uint, error) {
	var version uint
	err := h.with(ctx, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not migrate run history: %w", err)
		}

		v, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("could not read run history version: %w", err)
		}
		if dirty {
			return fmt.Errorf("run history version %d is dirty", v)
		}
		version = v
		return nil
	})
	if err != nil {
		return 0, err
	}

	h.logger.Debugf("Run history schema at version %d", version)
	return version, nil
}

// Drop removes the run history tables, stored runs are lost.
func (h *HistorySchema) Drop(ctx context.Context) error {
	err := h.with(ctx, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not drop run history: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.logger.Warningf("Run history schema dropped")
	return nil
}

func (h *HistorySchema) with(ctx context.Context, fn func(m *migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := iofs.New(historySQL, "sql")
	if err != nil {
		return fmt.Errorf("could not load run history migrations: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			h.logger.Errorf("Could not close run history migrations: %s", err)
		}
	}()

	driver, err := sqlite3.WithInstance(h.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not prepare run history migrations: %w", err)
	}

	return fn(m)
}
