package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dmitrijs2005/gophprofile/internal/common"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const defaultConnectTimeout = 20 * time.Second

// Dialect identifies the SQL flavour behind a DSN.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFromDSN picks PostgreSQL for postgres:// and postgresql:// URLs and
// SQLite for everything else (a file path or ":memory:").
func DialectFromDSN(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// GooseDialect is the name goose uses for the dialect.
func (d Dialect) GooseDialect() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Open opens dsn and pings it with exponential backoff until it answers or
// connectTimeout elapses. A zero timeout falls back to 20s.
func Open(ctx context.Context, dsn string, connectTimeout time.Duration) (*sql.DB, Dialect, error) {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}

	if err := checkDSN(dsn); err != nil {
		return nil, "", err
	}

	dialect := DialectFromDSN(dsn)
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	// A single connection keeps an in-memory SQLite database alive and shared.
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 250 * time.Millisecond
	eb.RandomizationFactor = 0
	eb.Multiplier = 2
	eb.MaxInterval = connectTimeout / 4
	eb.MaxElapsedTime = connectTimeout

	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(eb, ctx))
	if err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db ping error: %w", err)
	}

	return db, dialect, nil
}

// checkDSN rejects empty DSNs and URLs of databases other than PostgreSQL.
// The DSN itself is kept out of the error since it may carry a password.
func checkDSN(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		return fmt.Errorf("%w: empty", common.ErrorUnsupportedDSN)
	}
	scheme, _, found := strings.Cut(dsn, "://")
	if !found || DialectFromDSN(dsn) == DialectPostgres || strings.EqualFold(scheme, "file") {
		return nil
	}
	return fmt.Errorf("%w: scheme %q", common.ErrorUnsupportedDSN, scheme)
}
