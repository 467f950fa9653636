package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diary/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/diary/internal/server/repositories/users"
)

// RepositoryManager vends stores bound to a DBTX, so the same service code
// works against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Diaries(db dbx.DBTX) diaries.Repository
	Favorites(db dbx.DBTX) favorites.Repository
}
