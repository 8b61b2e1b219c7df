package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/inventory-management/internal/db"
	"github.com/frahmantamala/inventory-management/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply the embedded schema migrations of every store",
	}
	migrateRollback bool
	migrateStore    string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest migration instead of applying new ones")
	migrateCmd.Flags().StringVarP(&migrateStore, "store", "s", "", "only migrate this store (users, inventory or logs)")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	lg := logger.L()

	stores, err := db.OpenAll(cfg.Stores)
	if err != nil {
		return err
	}
	defer stores.Close()

	targets := stores.All()
	if migrateStore != "" {
		store, ok := stores.Get(migrateStore)
		if !ok {
			return fmt.Errorf("unknown store %q", migrateStore)
		}
		targets = []*db.Store{store}
	}

	for _, store := range targets {
		if migrateRollback {
			err = store.Rollback(ctx, lg)
		} else {
			err = store.Migrate(ctx, lg)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
