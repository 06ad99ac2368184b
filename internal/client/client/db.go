package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/client/migrations"
	"github.com/dmitrijs2005/gophprofile/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/gophprofile/internal/dbx"
	"github.com/dmitrijs2005/gophprofile/internal/filex"
)

type Repositories struct {
	DB       *sql.DB
	Dialect  dbx.Dialect
	Profiles profiles.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// InitDatabase opens dsn, applies the embedded migrations and returns the
// repositories bound to it. The directory of a SQLite file is created if
// missing.
func InitDatabase(ctx context.Context, dsn string, connectTimeout time.Duration) (*Repositories, error) {
	if isSQLiteFile(dsn) {
		if _, err := filex.EnsureDir(filepath.Dir(dsn)); err != nil {
			return nil, err
		}
	}

	db, dialect, err := dbx.Open(ctx, dsn, connectTimeout)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:       db,
		Dialect:  dialect,
		Profiles: profiles.NewSQLRepository(db, dialect),
	}, nil
}

func isSQLiteFile(dsn string) bool {
	return dsn != "" &&
		dbx.DialectFromDSN(dsn) == dbx.DialectSQLite &&
		!strings.Contains(dsn, ":memory:") &&
		!strings.HasPrefix(dsn, "file:")
}
