package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	err := Classify(fmt.Errorf("insert: %w", unique))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Contains(t, err.Error(), "users_email_key")

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "favorite_days_diary_id_fkey"}
	assert.ErrorIs(t, Classify(fk), common.ErrorNotFound)

	other := errors.New("connection reset")
	err = Classify(other)
	assert.ErrorIs(t, err, other)
	assert.EqualError(t, err, "db error: connection reset")
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}
