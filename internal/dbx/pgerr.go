package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the stores care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Classify turns a driver error into a common sentinel where one applies:
// unique violations become ErrorAlreadyExists and foreign key violations
// ErrorNotFound (the referenced row is gone). Anything else is wrapped as a
// generic db error. nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrorNotFound, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
