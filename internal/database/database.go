package database

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"engsite/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type MethodsDB interface {
	CloseDB() error
	RunMigrations(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	GetDB() *DB
}

type DB struct {
	*sqlx.DB
	Driver string
}

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// ConnectDB opens the SQL backend of the local store and applies migrations.
func ConnectDB(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*DB, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.LocalStore.Driver {
	case config.DriverPostgres:
		log.WithFields(logrus.Fields{"host": cfg.DB.DbHOST, "dbname": cfg.DB.DbNAME}).Info("connecting to PostgreSQL")
		db, err = Open(ctx, "postgres", cfg.DB.DSN())
	case config.DriverSQLite:
		log.WithField("path", cfg.LocalStore.SQLitePath).Info("opening SQLite")
		db, err = OpenSQLite(ctx, cfg.LocalStore.SQLitePath)
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.LocalStore.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx); err != nil {
		_ = db.CloseDB()
		return nil, err
	}

	if err := db.HealthCheck(ctx); err != nil {
		_ = db.CloseDB()
		return nil, err
	}

	log.WithField("driver", db.Driver).Info("local store database ready")
	return db, nil
}

func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &DB{DB: db, Driver: driver}, nil
}

// OpenSQLite creates the parent directory, opens the file and tunes it for
// a single writer.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	db, err := Open(ctx, "sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error setting %q: %w", pragma, err)
		}
	}

	return db, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) RunMigrations(ctx context.Context) error {
	dialect := "postgres"
	if db.Driver == "sqlite" {
		dialect = "sqlite3"
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("error setting migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.PingContext(ctx)
}

func (db *DB) GetDB() *DB {
	return db
}
