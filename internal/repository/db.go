package repository

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour a SQLRepo speaks
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const (
	sqliteDriverName   = "sqlite"
	postgresDriverName = "pgx"
	memoryDSN          = ":memory:"
)

// Rebind rewrites '?' placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// OpenSQLite opens (or creates) a SQLite database and ensures the schema exists.
// Pass ":memory:" for a private in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection: an in-memory database lives and dies with it, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if path != memoryDSN {
		if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
		}
	}

	if err := ensureSchema(db, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// OpenPostgres connects through the pgx stdlib driver and ensures the schema exists.
func OpenPostgres(dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open(postgresDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := ensureSchema(db, postgresSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewStore builds the AuctionDB selected by driver.
func NewStore(driver, dsn string, maxOpenConns int) (AuctionDB, error) {
	switch strings.ToLower(driver) {
	case "memory":
		return NewMemoryRepo(), nil
	case "", string(DialectSQLite):
		if dsn == "" {
			dsn = memoryDSN
		}
		db, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return NewSQLRepo(db, DialectSQLite), nil
	case string(DialectPostgres), "postgresql", "pgx":
		db, err := OpenPostgres(dsn, maxOpenConns)
		if err != nil {
			return nil, err
		}
		return NewSQLRepo(db, DialectPostgres), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT 0,
    date_joined TIMESTAMP NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS auth_tokens (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS listings (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    starting_bid REAL NOT NULL,
    current_bid REAL NOT NULL,
    created_at TIMESTAMP NOT NULL,
    image_url TEXT,
    active BOOLEAN NOT NULL DEFAULT 1,
    category TEXT NOT NULL DEFAULT 'Other',
    CHECK (current_bid >= starting_bid)
);`, `
CREATE TABLE IF NOT EXISTS bids (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
    bidder_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    amount REAL NOT NULL,
    created_at TIMESTAMP NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_bids_listing ON bids(listing_id);`, `
CREATE TABLE IF NOT EXISTS comments (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
    commentor_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_comments_listing ON comments(listing_id);`,
}

var postgresSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    date_joined TIMESTAMPTZ NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS auth_tokens (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS listings (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(200) NOT NULL,
    description VARCHAR(1000) NOT NULL,
    starting_bid NUMERIC(6,2) NOT NULL,
    current_bid NUMERIC(6,2) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    image_url VARCHAR(200),
    active BOOLEAN NOT NULL DEFAULT TRUE,
    category VARCHAR(64) NOT NULL DEFAULT 'Other',
    CHECK (current_bid >= starting_bid)
);`, `
CREATE TABLE IF NOT EXISTS bids (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
    bidder_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    amount NUMERIC(6,2) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_bids_listing ON bids(listing_id);`, `
CREATE TABLE IF NOT EXISTS comments (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
    commentor_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    text VARCHAR(1000) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_comments_listing ON comments(listing_id);`,
}

func ensureSchema(db *sql.DB, statements []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
