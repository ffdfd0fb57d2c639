// Package sqlstore implements a storage.Adapter over a SQL table of
// key/value rows. SQLite (modernc.org/sqlite) and Postgres (pgx or lib/pq)
// are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	_ "github.com/jackc/pgx/v5/stdlib"                  // "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // "postgres" driver
	_ "modernc.org/sqlite" // "sqlite" driver

	"github.com/arthur-debert/nanofire/nanofire/storage"
)

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite"
	DriverPGX      = "pgx"
	DriverPostgres = "postgres"
)

// DefaultTable is the table used when none is configured
const DefaultTable = "nanofire_entries"

const (
	colKey          = "key"
	colValue        = "value"
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite3"

	logMsgSQLExecuted = "executed sql"
	logAttrQuery      = "query"
	logAttrDuration   = "duration_ms"
)

var (
	// ErrUnsupportedDriver is returned for drivers without a known SQL dialect
	ErrUnsupportedDriver = errors.New("unsupported driver")

	// ErrInvalidTableName is returned for table names that are not plain identifiers
	ErrInvalidTableName = errors.New("invalid table name")

	// ErrNilDatabaseConnection is returned when New receives a nil *sqlx.DB
	ErrNilDatabaseConnection = errors.New("nil database connection")

	// ErrBuildingQueryFailed wraps goqu errors
	ErrBuildingQueryFailed = errors.New("building query failed")

	tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Config describes the database to connect to
type Config struct {
	Driver string
	DSN    string
	Table  string
}

// Store is a storage.Adapter persisting entries as rows of one table
type Store struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	table   string
	logger  *slog.Logger
}

var _ storage.Adapter = (*Store)(nil)

// Option configures a Store
type Option func(*Store) error

// WithTable sets the table holding the entries
func WithTable(table string) Option {
	return func(s *Store) error {
		if !tableNamePattern.MatchString(table) {
			return fmt.Errorf("%w: %q", ErrInvalidTableName, table)
		}
		s.table = table
		return nil
	}
}

// WithLogger sets the logger receiving executed SQL at debug level
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// Open connects to cfg and makes sure the table exists.
// SQLite connections are limited to one and switched to WAL mode.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if _, err := dialectFor(cfg.Driver); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	if cfg.Table != "" {
		opts = append([]Option{WithTable(cfg.Table)}, opts...)
	}
	s, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open connection. The dialect follows db.DriverName().
// The table is not created; call Migrate for that.
func New(db *sqlx.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}
	dialect, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:      db,
		dialect: goqu.Dialect(dialect),
		table:   DefaultTable,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func dialectFor(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return dialectSQLite, nil
	case DriverPGX, DriverPostgres:
		return dialectPostgres, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

// Table returns the name of the entries table
func (s *Store) Table() string {
	return s.table
}

// DB returns the underlying connection
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Migrate creates the entries table when it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (%q TEXT PRIMARY KEY, %q TEXT NOT NULL)`,
		s.table, colKey, colValue)
	if _, err := s.exec(ctx, s.db, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// Get implements storage.Adapter.Get
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.dialect.
		From(s.table).
		Select(colValue).
		Where(goqu.C(colKey).Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", false, errors.Join(ErrBuildingQueryFailed, err)
	}

	var value string
	start := time.Now()
	err = s.db.GetContext(ctx, &value, query, args...)
	s.logSQL(query, start)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements storage.Adapter.Set as update-then-insert in one transaction
func (s *Store) Set(ctx context.Context, key, value string) error {
	update, updateArgs, err := s.dialect.
		Update(s.table).
		Set(goqu.Record{colValue: value}).
		Where(goqu.C(colKey).Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}
	insert, insertArgs, err := s.dialect.
		Insert(s.table).
		Rows(goqu.Record{colKey: key, colValue: value}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := s.exec(ctx, tx, update, updateArgs...)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := s.exec(ctx, tx, insert, insertArgs...); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Remove implements storage.Adapter.Remove
func (s *Store) Remove(ctx context.Context, key string) error {
	query, args, err := s.dialect.
		Delete(s.table).
		Where(goqu.C(colKey).Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}
	if _, err := s.exec(ctx, s.db, query, args...); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close implements storage.Adapter.Close
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) exec(ctx context.Context, e sqlx.ExecerContext, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := e.ExecContext(ctx, query, args...)
	s.logSQL(query, start)
	return res, err
}

func (s *Store) logSQL(query string, start time.Time) {
	s.logger.Debug(logMsgSQLExecuted,
		logAttrQuery, query,
		logAttrDuration, time.Since(start).Milliseconds())
}
