package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/dbx"
)

// SQLRepository stores profiles in the profiles and profile_images tables of
// either SQLite or PostgreSQL; only the placeholder style differs.
type SQLRepository struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

func NewSQLRepository(db *sql.DB, dialect dbx.Dialect) *SQLRepository {
	var format sq.PlaceholderFormat = sq.Question
	if dialect == dbx.DialectPostgres {
		format = sq.Dollar
	}
	return &SQLRepository{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(format),
		now: time.Now,
	}
}

func (r *SQLRepository) Get(ctx context.Context, key string) (*models.Profile, error) {
	query, args, err := r.sb.
		Select("name", "title", "company", "description", "phone", "country_code").
		From("profiles").
		Where(sq.Eq{"profile_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	p := &models.Profile{}
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&p.Name, &p.Title, &p.Company, &p.Description, &p.Phone, &p.CountryCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select profile[%s]: %w", key, err)
	}

	p.ImageURLs, err = r.selectImages(ctx, key)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *SQLRepository) selectImages(ctx context.Context, key string) ([]string, error) {
	query, args, err := r.sb.
		Select("url").
		From("profile_images").
		Where(sq.Eq{"profile_key": key}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select images[%s]: %w", key, err)
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image rows: %w", err)
	}

	return urls, nil
}

// Replace upserts the profile row and rewrites its image list in one
// transaction, so readers never observe a partially written image list.
func (r *SQLRepository) Replace(ctx context.Context, key string, p *models.Profile) error {
	upsert, upsertArgs, err := r.sb.
		Insert("profiles").
		Columns("profile_key", "name", "title", "company", "description", "phone", "country_code", "updated_at").
		Values(key, p.Name, p.Title, p.Company, p.Description, p.Phone, p.CountryCode, r.now().UTC()).
		Suffix(`ON CONFLICT (profile_key) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			company = excluded.company,
			description = excluded.description,
			phone = excluded.phone,
			country_code = excluded.country_code,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	del, delArgs, err := r.sb.Delete("profile_images").Where(sq.Eq{"profile_key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var (
		insImages     string
		insImagesArgs []any
	)
	if len(p.ImageURLs) > 0 {
		ins := r.sb.Insert("profile_images").Columns("profile_key", "position", "url")
		for i, u := range p.ImageURLs {
			ins = ins.Values(key, i, u)
		}
		insImages, insImagesArgs, err = ins.ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, upsert, upsertArgs...); err != nil {
			return fmt.Errorf("failed to upsert profile[%s]: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
			return fmt.Errorf("failed to clear images[%s]: %w", key, err)
		}
		if insImages == "" {
			return nil
		}
		if _, err := tx.ExecContext(ctx, insImages, insImagesArgs...); err != nil {
			return fmt.Errorf("failed to insert images[%s]: %w", key, err)
		}
		return nil
	})
}
