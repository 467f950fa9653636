package favorites

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	favCols    = []string{"id", "user_id", "diary_id", "created_at"}
	joinedCols = []string{
		"entry_id", "user_id", "selected_date", "day_quality", "thoughts", "highlight", "created_at", "updated_at",
		"id", "user_id", "diary_id", "created_at",
	}
	owner = models.Scope{UserID: 1}
	day   = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^INSERT\s+INTO\s+favorite_days\s*\(user_id,\s*diary_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*user_id,\s*diary_id,\s*created_at$`
	mock.ExpectQuery(q).
		WithArgs(int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows(favCols).AddRow(int64(3), int64(1), int64(10), now))

	got, err := repo.Create(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.FavoriteDay{ID: 3, UserID: 1, DiaryID: 10, CreatedAt: now}, *got)
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^INSERT\s+INTO\s+favorite_days`).
		WithArgs(int64(1), int64(10)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "favorite_days_user_diary_key"})

	_, err := repo.Create(context.Background(), 1, 10)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_MissingDiary(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^INSERT\s+INTO\s+favorite_days`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "favorite_days_diary_id_fkey"})

	_, err := repo.Create(context.Background(), 1, 404)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByUser_JoinsDiary(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^SELECT\s+d\.entry_id,.*d\.updated_at,\s*f\.id,\s*f\.user_id,\s*f\.diary_id,\s*f\.created_at\s+FROM\s+favorite_days\s+f\s+JOIN\s+diary_entries\s+d\s+ON\s+d\.entry_id\s*=\s*f\.diary_id\s+WHERE\s+f\.user_id\s*=\s*\$1\s+ORDER\s+BY\s+f\.id$`
	rows := sqlmock.NewRows(joinedCols).
		AddRow(int64(10), int64(1), day, "Good", "ok", nil, now, now, int64(3), int64(1), int64(10), now).
		AddRow(int64(11), int64(1), day, "Fine", "hm", "walk", now, now, int64(4), int64(1), int64(11), now)
	mock.ExpectQuery(q).WithArgs(int64(1)).WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(10), got[0].DiaryEntry.EntryID)
	assert.Equal(t, "Good", got[0].DiaryEntry.DayQuality)
	require.NotNil(t, got[1].DiaryEntry.Highlight)
	assert.Equal(t, "walk", *got[1].DiaryEntry.Highlight)
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT`).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows(joinedCols))

	got, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByUser_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT`).WillReturnError(errors.New("db down"))

	_, err := repo.ListByUser(context.Background(), 1)
	assert.EqualError(t, err, "db error: db down")
}

func TestGet(t *testing.T) {
	q := `(?s)^SELECT\s+d\.entry_id,.*WHERE\s+f\.id\s*=\s*\$1\s+AND\s+\(f\.user_id\s*=\s*\$2\s+OR\s+\$3\)$`
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).
			WithArgs(int64(3), int64(1), false).
			WillReturnRows(sqlmock.NewRows(joinedCols).
				AddRow(int64(10), int64(1), day, "Good", "ok", nil, now, now, int64(3), int64(1), int64(10), now))

		got, err := repo.Get(context.Background(), 3, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(10), got.DiaryID)
		assert.Equal(t, int64(10), got.DiaryEntry.EntryID)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(3), int64(1), false).WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), 3, owner)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestFindByPair(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*user_id,\s*diary_id,\s*created_at\s+FROM\s+favorite_days\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+diary_id\s*=\s*\$2$`

	t.Run("present", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(1), int64(10)).
			WillReturnRows(sqlmock.NewRows(favCols).AddRow(int64(3), int64(1), int64(10), time.Now()))

		got, err := repo.FindByPair(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)
	})

	t.Run("absent", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(1), int64(10)).WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByPair(context.Background(), 1, 10)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestUpdateDiary(t *testing.T) {
	q := `(?s)^UPDATE\s+favorite_days\s+SET\s+diary_id\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+AND\s+\(user_id\s*=\s*\$3\s+OR\s+\$4\)\s+RETURNING\s+id,\s*user_id,\s*diary_id,\s*created_at$`

	t.Run("repointed", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(11), int64(3), int64(1), false).
			WillReturnRows(sqlmock.NewRows(favCols).AddRow(int64(3), int64(1), int64(11), time.Now()))

		got, err := repo.UpdateDiary(context.Background(), 3, owner, 11)
		require.NoError(t, err)
		assert.Equal(t, int64(11), got.DiaryID)
	})

	t.Run("duplicate pair", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(int64(11), int64(3), int64(1), false).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.UpdateDiary(context.Background(), 3, owner, 11)
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	})
}

func TestDelete(t *testing.T) {
	q := `^DELETE\s+FROM\s+favorite_days\s+WHERE\s+id\s*=\s*\$1\s+AND\s+\(user_id\s*=\s*\$2\s+OR\s+\$3\)$`

	t.Run("removed", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs(int64(3), int64(1), false).WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(context.Background(), 3, owner))
	})

	t.Run("absent", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs(int64(3), int64(1), false).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(context.Background(), 3, owner), common.ErrorNotFound)
	})
}
