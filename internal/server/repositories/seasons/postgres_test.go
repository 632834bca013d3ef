package seasons

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kidslabs/catalog/internal/common"
	"github.com/kidslabs/catalog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func ptr[T any](v T) *T { return &v }

var seasonColumns = []string{"id", "numero", "titulo", "descricao", "imagem"}

const insertSeasonQuery = `(?s)^INSERT\s+INTO\s+seasons\s*\(numero,\s*titulo,\s*descricao,\s*imagem\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id\s*$`

func TestPostgresCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertSeasonQuery).
		WithArgs(3, "Temporada 3", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	got, err := repo.Create(context.Background(), &models.Season{Numero: ptr(3), Titulo: ptr("Temporada 3")})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_DuplicateNumero(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertSeasonQuery).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Season{Numero: ptr(1), Titulo: ptr("x")})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertSeasonQuery).WillReturnError(errors.New("down"))

	_, err := repo.Create(context.Background(), &models.Season{Numero: ptr(1), Titulo: ptr("x")})
	require.EqualError(t, err, "db error: down")
}

func TestPostgresGetByID(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*numero,\s*titulo,\s*descricao,\s*imagem\s+FROM\s+seasons\s+WHERE\s+id\s*=\s*\$1\s*$`

	t.Run("found with nulls", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(seasonColumns).AddRow(int64(5), nil, "T", nil, nil))

		got, err := repo.GetByID(context.Background(), 5)
		require.NoError(t, err)
		assert.Nil(t, got.Numero)
		assert.Equal(t, "T", *got.Titulo)
		assert.Nil(t, got.Descricao)
		assert.Nil(t, got.Imagem)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 5)
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnError(errors.New("boom"))

		_, err := repo.GetByID(context.Background(), 5)
		require.EqualError(t, err, "db error: boom")
	})
}

func TestPostgresList(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*numero,\s*titulo,\s*descricao,\s*imagem\s+FROM\s+seasons\s+ORDER\s+BY\s+numero\s+NULLS\s+LAST,\s*id\s*$`

	t.Run("rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(seasonColumns).
			AddRow(int64(2), int64(1), "A", "d", "img").
			AddRow(int64(1), int64(2), "B", nil, nil))

		got, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, *got[0].Numero)
		assert.Equal(t, "img", *got[0].Imagem)
		assert.Equal(t, int64(1), got[1].ID)
	})

	t.Run("scan error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(seasonColumns).
			AddRow("not-an-int", nil, nil, nil, nil))

		_, err := repo.List(context.Background())
		require.ErrorContains(t, err, "scan error")
	})

	t.Run("rows error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(seasonColumns).
			AddRow(int64(1), int64(1), "A", nil, nil).
			RowError(0, errors.New("broken")))

		_, err := repo.List(context.Background())
		require.ErrorContains(t, err, "rows error")
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnError(errors.New("boom"))

		_, err := repo.List(context.Background())
		require.EqualError(t, err, "db error: boom")
	})
}

func TestPostgresCountAndDeleteAll(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM seasons$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(50))
	mock.ExpectExec(`^DELETE FROM seasons$`).WillReturnResult(sqlmock.NewResult(0, 50))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	deleted, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(50), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteAll_Errors(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM seasons$`).WillReturnError(errors.New("locked"))
	_, err := repo.DeleteAll(context.Background())
	require.EqualError(t, err, "db error: locked")

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM seasons$`).WillReturnError(errors.New("gone"))
	_, err = repo.Count(context.Background())
	require.EqualError(t, err, "db error: gone")
}
