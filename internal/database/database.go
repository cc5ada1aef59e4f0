package database

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// Driver selects the storage backend. Postgres is the production default;
// sqlite keeps the bot runnable without a server and backs the tests.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

type DB struct {
	*sql.DB
	driver Driver
}

type Config struct {
	Driver   Driver
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the sqlite database file (sqlite driver only).
	Path string
}

func New(cfg Config) (*DB, error) {
	var drvName, dsn string

	switch cfg.Driver {
	case DriverSQLite:
		drvName = "sqlite"
		dsn = cfg.Path
		if dsn == "" {
			dsn = "file:friends_check.db?_pragma=busy_timeout(5000)"
		}
	case DriverPostgres, "":
		drvName = "postgres"
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}

	return &DB{DB: db, driver: driver}, nil
}

func (db *DB) RunMigrations() error {
	goose.SetBaseFS(migrationsFS)

	dialect := "postgres"
	dir := "migrations/postgres"
	if db.driver == DriverSQLite {
		dialect = "sqlite3"
		dir = "migrations/sqlite"
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
