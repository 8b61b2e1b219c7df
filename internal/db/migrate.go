package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations
var migrationsFS embed.FS

// gooseDialect maps a store driver to its migration dialect and directory.
func gooseDialect(driver string) (database.Dialect, string, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return database.DialectSQLite3, "sqlite", nil
	case "postgres":
		return database.DialectPostgres, "postgres", nil
	case "mysql":
		return database.DialectMySQL, "mysql", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

func (s *Store) provider() (*goose.Provider, error) {
	dialect, dir, err := gooseDialect(s.Driver)
	if err != nil {
		return nil, err
	}

	fsys, err := fs.Sub(migrationsFS, fmt.Sprintf("migrations/%s/%s", dir, s.Name))
	if err != nil {
		return nil, fmt.Errorf("store %s: migrations: %w", s.Name, err)
	}

	// one version table per store so all three may share a database
	versions, err := database.NewStore(dialect, fmt.Sprintf("goose_%s_version", s.Name))
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", s.Name, err)
	}

	return goose.NewProvider("", s.DB(), fsys, goose.WithStore(versions))
}

// Migrate applies all pending schema migrations of the store.
func (s *Store) Migrate(ctx context.Context, logger *slog.Logger) error {
	p, err := s.provider()
	if err != nil {
		return err
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("store %s: migrate up: %w", s.Name, err)
	}
	for _, r := range results {
		logger.Info("migration applied", "store", s.Name, "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// Rollback reverts the most recent migration of the store.
func (s *Store) Rollback(ctx context.Context, logger *slog.Logger) error {
	p, err := s.provider()
	if err != nil {
		return err
	}

	r, err := p.Down(ctx)
	if err != nil {
		return fmt.Errorf("store %s: migrate down: %w", s.Name, err)
	}
	logger.Info("migration rolled back", "store", s.Name, "version", r.Source.Version)
	return nil
}

// MigrateAll initializes every store schema.
func (s *Stores) MigrateAll(ctx context.Context, logger *slog.Logger) error {
	for _, store := range s.All() {
		if err := store.Migrate(ctx, logger); err != nil {
			return err
		}
	}
	return nil
}
