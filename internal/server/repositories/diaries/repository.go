package diaries

import (
	"context"

	"github.com/dmitrijs2005/diary/internal/server/models"
)

// Repository persists diary entries. Every read and write is limited to
// the given scope; rows outside it behave as absent (common.ErrorNotFound).
type Repository interface {
	Create(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, error)
	List(ctx context.Context, scope models.Scope) ([]models.DiaryEntry, error)
	Get(ctx context.Context, id int64, scope models.Scope) (*models.DiaryEntry, error)
	Update(ctx context.Context, id int64, scope models.Scope, patch models.DiaryPatch) (*models.DiaryEntry, error)
	Delete(ctx context.Context, id int64, scope models.Scope) error
}
