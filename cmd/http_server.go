package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/audit"
	auditSQL "github.com/frahmantamala/inventory-management/internal/audit/sqlstore"
	"github.com/frahmantamala/inventory-management/internal/auth"
	"github.com/frahmantamala/inventory-management/internal/db"
	"github.com/frahmantamala/inventory-management/internal/inventory"
	inventorySQL "github.com/frahmantamala/inventory-management/internal/inventory/sqlstore"
	"github.com/frahmantamala/inventory-management/internal/session"
	"github.com/frahmantamala/inventory-management/internal/transport"
	"github.com/frahmantamala/inventory-management/internal/transport/rest"
	"github.com/frahmantamala/inventory-management/internal/transport/swagger"
	"github.com/frahmantamala/inventory-management/internal/user"
	userSQL "github.com/frahmantamala/inventory-management/internal/user/sqlstore"
	"github.com/frahmantamala/inventory-management/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Stores   *db.Stores
	Logger   *slog.Logger
	Audit    *audit.Service
	Users    *user.Service
	Auth     *auth.Service
	Items    *inventory.Service
	Sessions *session.Manager
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if _, err := swagger.Load(context.Background()); err != nil {
		deps.Logger.Warn("OpenAPI document is invalid", "error", err)
	}

	router := chi.NewRouter()
	setupRoutes(router, deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(router chi.Router, deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)

	pingers := make(map[string]rest.Pinger, 3)
	for _, store := range deps.Stores.All() {
		pingers[store.Name] = store
	}

	rest.RegisterAllRoutes(router,
		rest.RouterConfig{
			AllowedOrigins: deps.Config.Server.Origins(),
			Sessions:       deps.Sessions,
		},
		rest.Handlers{
			Auth:      auth.NewHandler(base, deps.Auth, deps.Sessions),
			Users:     user.NewHandler(base, deps.Users),
			Inventory: inventory.NewHandler(base, deps.Items, deps.Config.Server.MaxUploadBytes),
			Logs:      audit.NewHandler(base, deps.Audit),
			Health:    rest.NewHealthHandler(pingers),
		},
	)
}

// initializeDependencies opens and migrates the three stores and builds the
// services on top of them.
func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.L()

	stores, err := db.OpenAll(config.Stores)
	if err != nil {
		return nil, fmt.Errorf("failed to open stores: %w", err)
	}
	if err := stores.MigrateAll(ctx, lg); err != nil {
		_ = stores.Close()
		return nil, fmt.Errorf("failed to initialize schemas: %w", err)
	}

	return newDependencies(config, stores, lg), nil
}

func newDependencies(config *internal.Config, stores *db.Stores, lg *slog.Logger) *Dependencies {
	auditService := audit.NewService(auditSQL.NewAuditRepository(stores.Logs), lg)
	userRepo := userSQL.NewUserRepository(stores.Users)

	return &Dependencies{
		Config:   config,
		Stores:   stores,
		Logger:   lg,
		Audit:    auditService,
		Users:    user.NewService(userRepo, auditService, config.Security.BCryptCost, lg),
		Auth:     auth.NewService(userRepo, auditService, lg),
		Items:    inventory.NewService(inventorySQL.NewInventoryRepository(stores.Inventory), auditService, lg),
		Sessions: session.NewManager(config.Security),
	}
}

func (d *Dependencies) Close() {
	if d.Stores == nil {
		return
	}
	if err := d.Stores.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
	d.Stores = nil
}
