package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/diary/internal/apperror"
	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/repositories/repomanager"
)

const (
	msgFavoriteNotFound = "Favorite not found"
	msgDiaryIDRequired  = "Diary ID is required"
	msgAlreadyFavorite  = "Diary entry is already a favorite"
	msgInvalidParams    = "Invalid request parameters"
)

// ToggleResult reports the state after a toggle. Favorite is set only when
// the toggle added one.
type ToggleResult struct {
	Favorited bool
	Favorite  *models.FavoriteDay
}

// FavoriteService manages favorite days. A user may favorite only entries
// visible to them, and each entry at most once.
type FavoriteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFavoriteService(db *sql.DB, m repomanager.RepositoryManager) *FavoriteService {
	return &FavoriteService{db: db, repomanager: m}
}

// Add favorites diaryID for the caller. A second add of the same entry is
// a conflict.
func (s *FavoriteService) Add(ctx context.Context, scope models.Scope, diaryID int64) (*models.FavoriteDay, error) {
	if diaryID <= 0 {
		return nil, apperror.Validation(msgDiaryIDRequired, nil)
	}

	var fav *models.FavoriteDay
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Diaries(tx).Get(ctx, diaryID, scope); err != nil {
			return diaryError(err)
		}
		var err error
		fav, err = s.repomanager.Favorites(tx).Create(ctx, scope.UserID, diaryID)
		return favoriteWriteError(err)
	})
	if err != nil {
		return nil, txError(err)
	}
	return fav, nil
}

// List returns the caller's own favorites joined with their entries.
func (s *FavoriteService) List(ctx context.Context, scope models.Scope) ([]models.FavoriteWithDiary, error) {
	favs, err := s.repomanager.Favorites(s.db).ListByUser(ctx, scope.UserID)
	if err != nil {
		return nil, apperror.Internal(msgInternal, err)
	}
	return favs, nil
}

func (s *FavoriteService) Get(ctx context.Context, scope models.Scope, id int64) (*models.FavoriteWithDiary, error) {
	fav, err := s.repomanager.Favorites(s.db).Get(ctx, id, scope)
	if err != nil {
		return nil, favoriteError(err)
	}
	return fav, nil
}

// Update repoints favorite id at diaryID.
func (s *FavoriteService) Update(ctx context.Context, scope models.Scope, id, diaryID int64) (*models.FavoriteDay, error) {
	if id <= 0 || diaryID <= 0 {
		return nil, apperror.Validation(msgInvalidParams, nil)
	}

	var fav *models.FavoriteDay
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		favorites := s.repomanager.Favorites(tx)
		if _, err := favorites.Get(ctx, id, scope); err != nil {
			return favoriteError(err)
		}
		if _, err := s.repomanager.Diaries(tx).Get(ctx, diaryID, scope); err != nil {
			return diaryError(err)
		}
		var err error
		fav, err = favorites.UpdateDiary(ctx, id, scope, diaryID)
		if errors.Is(err, common.ErrorNotFound) {
			return apperror.NotFound(msgFavoriteNotFound)
		}
		return favoriteWriteError(err)
	})
	if err != nil {
		return nil, txError(err)
	}
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, scope models.Scope, id int64) error {
	if err := s.repomanager.Favorites(s.db).Delete(ctx, id, scope); err != nil {
		return favoriteError(err)
	}
	return nil
}

// Toggle flips whether the caller has favorited diaryID: an existing row
// is deleted, otherwise one is created. Both steps run in one transaction,
// so toggling twice restores the original state.
func (s *FavoriteService) Toggle(ctx context.Context, scope models.Scope, diaryID int64) (*ToggleResult, error) {
	if diaryID <= 0 {
		return nil, apperror.Validation(msgDiaryIDRequired, nil)
	}

	var res ToggleResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Diaries(tx).Get(ctx, diaryID, scope); err != nil {
			return diaryError(err)
		}

		favorites := s.repomanager.Favorites(tx)
		existing, err := favorites.FindByPair(ctx, scope.UserID, diaryID)
		switch {
		case err == nil:
			if err := favorites.Delete(ctx, existing.ID, models.Scope{UserID: scope.UserID}); err != nil {
				return favoriteError(err)
			}
			res = ToggleResult{Favorited: false}
			return nil
		case errors.Is(err, common.ErrorNotFound):
			fav, err := favorites.Create(ctx, scope.UserID, diaryID)
			if err != nil {
				return favoriteWriteError(err)
			}
			res = ToggleResult{Favorited: true, Favorite: fav}
			return nil
		default:
			return apperror.Internal(msgInternal, err)
		}
	})
	if err != nil {
		return nil, txError(err)
	}
	return &res, nil
}

func favoriteError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return apperror.NotFound(msgFavoriteNotFound)
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Internal(msgInternal, err)
}

// txError passes service errors through and wraps failures of the
// transaction itself.
func txError(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Internal(msgInternal, err)
}

// favoriteWriteError maps insert/update failures: a duplicate pair is a
// conflict, a dangling reference means the entry vanished meanwhile.
func favoriteWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorAlreadyExists):
		return apperror.Conflict(msgAlreadyFavorite, err)
	case errors.Is(err, common.ErrorNotFound):
		return apperror.NotFound(msgDiaryNotFound)
	default:
		return apperror.Internal(msgInternal, err)
	}
}
