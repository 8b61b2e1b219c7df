// Package dbtest opens migrated sqlite stores in a scratch directory for tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/db"
)

// Config returns a file-backed sqlite configuration for the three stores under dir.
func Config(dir string) internal.StoresConfig {
	store := func(name string) internal.DatabaseConfig {
		return internal.DatabaseConfig{
			Driver:       "sqlite",
			Source:       filepath.Join(dir, name+".db") + "?_pragma=busy_timeout(5000)",
			MaxOpenConns: 4,
			MaxIdleConns: 4,
		}
	}
	return internal.StoresConfig{
		Users:     store(db.StoreUsers),
		Inventory: store(db.StoreInventory),
		Logs:      store(db.StoreLogs),
	}
}

// Open opens and migrates all three stores under dir.
func Open(dir string) (*db.Stores, error) {
	stores, err := db.OpenAll(Config(dir))
	if err != nil {
		return nil, err
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := stores.MigrateAll(context.Background(), quiet); err != nil {
		_ = stores.Close()
		return nil, err
	}
	return stores, nil
}
