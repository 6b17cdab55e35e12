package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect names a supported storage backend.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// ParseDialect validates a driver name from configuration.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case DialectMySQL, DialectSQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

func (d Dialect) gooseDialect() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return string(d)
}

// Open connects to the database, verifies the connection and applies any
// pending migrations.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := newDB(dialect, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", dialect, err)
	}

	if err := migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}

	return NewStore(db, dialect), nil
}

func newDB(dialect Dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case DialectMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parsing mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC

		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating mysql connector: %w", err)
		}

		db := sql.OpenDB(connector)
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		return db, nil

	case DialectSQLite:
		db, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		// SQLite allows a single writer; one connection serialises
		// transactions instead of surfacing SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", dialect)
	}
}

var sqliteParams = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_time_format=sqlite",
}

// sqliteDSN appends the connection parameters the schema relies on,
// foreign key enforcement in particular.
func sqliteDSN(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range sqliteParams {
		if strings.Contains(dsn, p) {
			continue
		}
		b.WriteString(sep)
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

var memoryNameReplacer = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// MemoryDSN returns a DSN for a named, shared-cache in-memory SQLite
// database. Each distinct name is an independent database.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", memoryNameReplacer.ReplaceAllString(name, "_"))
}

// dbTime normalises timestamps before they are written so both backends
// store the same second-resolution UTC value.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
