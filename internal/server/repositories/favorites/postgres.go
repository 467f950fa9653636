// Package favorites is the Postgres-backed store of favorite days, joined
// with their diary entries on read.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diaries"
)

const favoriteColumns = `id, user_id, diary_id, created_at`

var joinedSelect = `SELECT ` + diaries.ColumnsOf("d") + `, f.id, f.user_id, f.diary_id, f.created_at
	FROM favorite_days f
	JOIN diary_entries d ON d.entry_id = f.diary_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, diaryID int64) (*models.FavoriteDay, error) {
	query :=
		`INSERT INTO favorite_days (user_id, diary_id)
		 VALUES ($1, $2)
		 RETURNING ` + favoriteColumns

	return scanFavorite(r.db.QueryRowContext(ctx, query, userID, diaryID))
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.FavoriteWithDiary, error) {
	query := joinedSelect + `
	WHERE f.user_id = $1
	ORDER BY f.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	out := []models.FavoriteWithDiary{}
	for rows.Next() {
		var fw models.FavoriteWithDiary
		if err := scanJoined(rows, &fw); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, fw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64, scope models.Scope) (*models.FavoriteWithDiary, error) {
	query := joinedSelect + `
	WHERE f.id = $1 AND (f.user_id = $2 OR $3)`

	fw := &models.FavoriteWithDiary{}
	if err := scanJoined(r.db.QueryRowContext(ctx, query, id, scope.UserID, scope.Admin), fw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Classify(err)
	}
	return fw, nil
}

func (r *PostgresRepository) FindByPair(ctx context.Context, userID, diaryID int64) (*models.FavoriteDay, error) {
	query :=
		`SELECT ` + favoriteColumns + ` FROM favorite_days
		 WHERE user_id = $1 AND diary_id = $2`

	return scanFavorite(r.db.QueryRowContext(ctx, query, userID, diaryID))
}

func (r *PostgresRepository) UpdateDiary(ctx context.Context, id int64, scope models.Scope, diaryID int64) (*models.FavoriteDay, error) {
	query :=
		`UPDATE favorite_days SET diary_id = $1
		 WHERE id = $2 AND (user_id = $3 OR $4)
		 RETURNING ` + favoriteColumns

	return scanFavorite(r.db.QueryRowContext(ctx, query, diaryID, id, scope.UserID, scope.Admin))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, scope models.Scope) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorite_days WHERE id = $1 AND (user_id = $2 OR $3)`,
		id, scope.UserID, scope.Admin)
	if err != nil {
		return dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func scanFavorite(row *sql.Row) (*models.FavoriteDay, error) {
	f := &models.FavoriteDay{}
	if err := row.Scan(&f.ID, &f.UserID, &f.DiaryID, &f.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Classify(err)
	}
	return f, nil
}

func scanJoined(row diaries.RowScanner, fw *models.FavoriteWithDiary) error {
	return diaries.Scan(row, &fw.DiaryEntry, &fw.ID, &fw.UserID, &fw.DiaryID, &fw.CreatedAt)
}
