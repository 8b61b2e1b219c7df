package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite" // registers the pure Go "sqlite" driver
)

const (
	StoreUsers     = "users"
	StoreInventory = "inventory"
	StoreLogs      = "logs"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store is one independently connected relational database. The gorm and sqlx
// handles share the same *sql.DB pool.
type Store struct {
	Name   string
	Driver string

	gorm *gorm.DB
	sqlx *sqlx.DB
}

// Open connects to a store and verifies the connection.
func Open(name string, cfg internal.DatabaseConfig) (*Store, error) {
	dialector, driverName, err := dialectorFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("store %s: failed to open: %w", name, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store %s: failed to ping database: %w", name, err)
	}

	return &Store{
		Name:   name,
		Driver: cfg.Driver,
		gorm:   gdb,
		sqlx:   sqlx.NewDb(sqlDB, driverName),
	}, nil
}

func dialectorFor(cfg internal.DatabaseConfig) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case "sqlite":
		return &sqlite.Dialector{DriverName: "sqlite", DSN: cfg.Source}, "sqlite", nil
	case "sqlite3":
		return sqlite.Open(cfg.Source), "sqlite3", nil
	case "postgres":
		return postgres.Open(cfg.Source), "pgx", nil
	case "mysql":
		return mysql.Open(cfg.Source), "mysql", nil
	default:
		return nil, "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Gorm returns a handle bound to ctx. Inside a request scope the handle runs on the
// scope's connection for this store.
func (s *Store) Gorm(ctx context.Context) (*gorm.DB, error) {
	scope := ScopeFromContext(ctx)
	if scope == nil {
		return s.gorm.WithContext(ctx), nil
	}

	conn, err := scope.conn(ctx, s)
	if err != nil {
		return nil, err
	}

	tx := s.gorm.Session(&gorm.Session{Context: ctx})
	tx.Statement.ConnPool = conn.Conn
	return tx, nil
}

// Querier is the part of the sqlx API shared by *sqlx.DB and *sqlx.Conn.
type Querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// SQLX returns an executor bound to the request scope's connection when one exists.
// Queries must be passed through Rebind first.
func (s *Store) SQLX(ctx context.Context) (Querier, error) {
	scope := ScopeFromContext(ctx)
	if scope == nil {
		return s.sqlx, nil
	}

	conn, err := scope.conn(ctx, s)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Rebind converts '?' placeholders to the driver's bind style.
func (s *Store) Rebind(query string) string {
	return s.sqlx.Rebind(query)
}

func (s *Store) DB() *sql.DB {
	return s.sqlx.DB
}

func (s *Store) PingContext(ctx context.Context) error {
	return s.sqlx.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.sqlx.Close()
}

// Stores groups the three databases of the application.
type Stores struct {
	Users     *Store
	Inventory *Store
	Logs      *Store
}

// OpenAll opens every store, closing the ones already opened if a later one fails.
func OpenAll(cfg internal.StoresConfig) (*Stores, error) {
	stores := &Stores{}

	var err error
	if stores.Users, err = Open(StoreUsers, cfg.Users); err != nil {
		return nil, err
	}
	if stores.Inventory, err = Open(StoreInventory, cfg.Inventory); err != nil {
		_ = stores.Close()
		return nil, err
	}
	if stores.Logs, err = Open(StoreLogs, cfg.Logs); err != nil {
		_ = stores.Close()
		return nil, err
	}

	return stores, nil
}

// All returns the opened stores in users, inventory, logs order.
func (s *Stores) All() []*Store {
	var all []*Store
	for _, store := range []*Store{s.Users, s.Inventory, s.Logs} {
		if store != nil {
			all = append(all, store)
		}
	}
	return all
}

func (s *Stores) Get(name string) (*Store, bool) {
	for _, store := range s.All() {
		if store.Name == name {
			return store, true
		}
	}
	return nil, false
}

func (s *Stores) Close() error {
	var errs []error
	for _, store := range s.All() {
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", store.Name, err))
		}
	}
	return errors.Join(errs...)
}
