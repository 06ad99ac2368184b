package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/dbx"
)

const (
	qSelectProfile = `^SELECT name, title, company, description, phone, country_code FROM profiles WHERE profile_key = \$1$`
	qSelectImages  = `^SELECT url FROM profile_images WHERE profile_key = \$1 ORDER BY position$`
	qUpsert        = `(?s)^INSERT INTO profiles \(profile_key,name,title,company,description,phone,country_code,updated_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8\) ON CONFLICT \(profile_key\) DO UPDATE SET.*updated_at = excluded\.updated_at$`
	qDeleteImages  = `^DELETE FROM profile_images WHERE profile_key = \$1$`
	qInsertImages  = `^INSERT INTO profile_images \(profile_key,position,url\) VALUES \(\$1,\$2,\$3\),\(\$4,\$5,\$6\)$`
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewSQLRepository(db, dbx.DialectPostgres), mock, db
}

func profileColumns() []string {
	return []string{"name", "title", "company", "description", "phone", "country_code"}
}

func TestPostgres_Get_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qSelectProfile).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(profileColumns()).
			AddRow("Naama", "CTO", "Prpl", "bio", "555-123-4567", "+1"))
	mock.ExpectQuery(qSelectImages).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"url"}).AddRow("u1").AddRow("u2"))

	got, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, &models.Profile{
		Name: "Naama", Title: "CTO", Company: "Prpl", Description: "bio",
		Phone: "555-123-4567", CountryCode: "+1", ImageURLs: []string{"u1", "u2"},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Get_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qSelectProfile).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(profileColumns()))

	_, err := repo.Get(context.Background(), "p1")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Get_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qSelectProfile).WithArgs("p1").WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgres_Get_ImagesError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qSelectProfile).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(profileColumns()).AddRow("", "", "", "", "", ""))
	mock.ExpectQuery(qSelectImages).WithArgs("p1").WillReturnError(errors.New("boom"))

	_, err := repo.Get(context.Background(), "p1")
	require.Error(t, err)
}

func TestPostgres_Replace_CommitsAllStatements(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(qUpsert).
		WithArgs("p1", "Naama", "CTO", "Prpl", "bio", "555-123-4567", "+1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qDeleteImages).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(qInsertImages).
		WithArgs("p1", int64(0), "u1", "p1", int64(1), "u2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), "p1", &models.Profile{
		Name: "Naama", Title: "CTO", Company: "Prpl", Description: "bio",
		Phone: "555-123-4567", CountryCode: "+1", ImageURLs: []string{"u1", "u2"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Replace_NoImagesSkipsInsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(qUpsert).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qDeleteImages).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.Replace(context.Background(), "p1", &models.Profile{Name: "x"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Replace_RollsBackOnImageFailure(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(qUpsert).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qDeleteImages).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(qInsertImages).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), "p1", &models.Profile{ImageURLs: []string{"a", "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Replace_BeginError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	err := repo.Replace(context.Background(), "p1", &models.Profile{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteDialect_UsesQuestionPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQLRepository(db, dbx.DialectSQLite)

	mock.ExpectQuery(`^SELECT name, title, company, description, phone, country_code FROM profiles WHERE profile_key = \?$`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(profileColumns()).AddRow("N", "", "", "", "", ""))
	mock.ExpectQuery(`^SELECT url FROM profile_images WHERE profile_key = \? ORDER BY position$`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"url"}))

	got, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "N", got.Name)
	assert.Empty(t, got.ImageURLs)
	require.NoError(t, mock.ExpectationsWereMet())
}
