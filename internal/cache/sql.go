package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	// Database drivers for the sql backends.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect selects placeholder style and driver for SQLStore
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// DefaultTable is the table used when none is configured
const DefaultTable = "chromeuri_cache"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore keeps records in a single key/value table
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// OpenSQLStore opens a database connection and ensures the cache table exists
func OpenSQLStore(ctx context.Context, dialect Dialect, dsn, table string) (*SQLStore, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", dialect, err)
	}

	store, err := NewSQLStore(db, dialect, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// NewSQLStore wraps an existing connection. Migrate must be called before use
// unless the table already exists.
func NewSQLStore(db *sql.DB, dialect Dialect, table string) (*SQLStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid cache table name %q", table)
	}
	switch dialect {
	case DialectSQLite, DialectPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}

	return &SQLStore{db: db, dialect: dialect, table: table}, nil
}

// Migrate creates the cache table if it does not exist
func (s *SQLStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	return nil
}

func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Get retrieves a value from the cache
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = %s`, s.table, s.placeholder(1))

	var value string
	err := s.db.QueryRowContext(ctx, query, Key(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheMiss{Key: key}
		}
		return nil, fmt.Errorf("failed to read cache record: %w", err)
	}

	return []byte(value), nil
}

// Set upserts the record for key
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (key, value) VALUES (%s, %s) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		s.table, s.placeholder(1), s.placeholder(2),
	)
	if _, err := s.db.ExecContext(ctx, query, Key(key), string(value)); err != nil {
		return fmt.Errorf("failed to write cache record: %w", err)
	}
	return nil
}

// Clear deletes every row and reports how many were removed
func (s *SQLStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table))
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache table: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
