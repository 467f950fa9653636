package favorites

import (
	"context"

	"github.com/dmitrijs2005/diary/internal/server/models"
)

// Repository persists favorite days. (user_id, diary_id) is unique: a
// second row for the same pair yields common.ErrorAlreadyExists, and a
// reference to a missing user or entry yields common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, userID, diaryID int64) (*models.FavoriteDay, error)
	ListByUser(ctx context.Context, userID int64) ([]models.FavoriteWithDiary, error)
	Get(ctx context.Context, id int64, scope models.Scope) (*models.FavoriteWithDiary, error)
	FindByPair(ctx context.Context, userID, diaryID int64) (*models.FavoriteDay, error)
	UpdateDiary(ctx context.Context, id int64, scope models.Scope, diaryID int64) (*models.FavoriteDay, error)
	Delete(ctx context.Context, id int64, scope models.Scope) error
}
