// Package diaries is the Postgres-backed diary entry store.
package diaries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

// Columns is the select list understood by Scan.
const Columns = `entry_id, user_id, selected_date, day_quality, thoughts, highlight, created_at, updated_at`

// ColumnsOf returns Columns qualified with a table alias, for joins.
func ColumnsOf(alias string) string {
	cols := strings.Split(Columns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.DiaryEntry) (*models.DiaryEntry, error) {
	query :=
		`INSERT INTO diary_entries (user_id, selected_date, day_quality, thoughts, highlight)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING entry_id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.SelectedDate, e.DayQuality, e.Thoughts, nullable(e.Highlight)).
		Scan(&e.EntryID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, scope models.Scope) ([]models.DiaryEntry, error) {
	query :=
		`SELECT ` + Columns + ` FROM diary_entries
		 WHERE (user_id = $1 OR $2)
		 ORDER BY selected_date DESC, entry_id DESC`

	rows, err := r.db.QueryContext(ctx, query, scope.UserID, scope.Admin)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	entries := []models.DiaryEntry{}
	for rows.Next() {
		var e models.DiaryEntry
		if err := Scan(rows, &e); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64, scope models.Scope) (*models.DiaryEntry, error) {
	query :=
		`SELECT ` + Columns + ` FROM diary_entries
		 WHERE entry_id = $1 AND (user_id = $2 OR $3)`

	return scanOne(r.db.QueryRowContext(ctx, query, id, scope.UserID, scope.Admin))
}

// Update applies the non-nil fields of patch and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id int64, scope models.Scope, patch models.DiaryPatch) (*models.DiaryEntry, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.SelectedDate != nil {
		set("selected_date", *patch.SelectedDate)
	}
	if patch.DayQuality != nil {
		set("day_quality", *patch.DayQuality)
	}
	if patch.Thoughts != nil {
		set("thoughts", *patch.Thoughts)
	}
	if patch.Highlight != nil {
		set("highlight", *patch.Highlight)
	}
	sets = append(sets, "updated_at = now()")

	n := len(args)
	args = append(args, id, scope.UserID, scope.Admin)
	query := fmt.Sprintf(
		`UPDATE diary_entries SET %s WHERE entry_id = $%d AND (user_id = $%d OR $%d) RETURNING %s`,
		strings.Join(sets, ", "), n+1, n+2, n+3, Columns)

	return scanOne(r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, scope models.Scope) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM diary_entries WHERE entry_id = $1 AND (user_id = $2 OR $3)`,
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

// RowScanner is implemented by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// Scan reads one row laid out as Columns into e. Extra destinations are
// scanned after the entry columns.
func Scan(row RowScanner, e *models.DiaryEntry, extra ...any) error {
	var highlight sql.NullString
	dest := append([]any{
		&e.EntryID, &e.UserID, &e.SelectedDate, &e.DayQuality, &e.Thoughts,
		&highlight, &e.CreatedAt, &e.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	e.Highlight = nil
	if highlight.Valid {
		h := highlight.String
		e.Highlight = &h
	}
	e.SelectedDate = e.SelectedDate.UTC()
	return nil
}

func scanOne(row *sql.Row) (*models.DiaryEntry, error) {
	e := &models.DiaryEntry{}
	if err := Scan(row, e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Classify(err)
	}
	return e, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
