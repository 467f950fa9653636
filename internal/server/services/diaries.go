package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/diary/internal/apperror"
	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/repositories/repomanager"
)

const (
	msgDiaryNotFound   = "Diary entry not found"
	msgDiaryFieldsMiss = "Please provide all required fields"
	msgInvalidDate     = "selectedDate must be a date (YYYY-MM-DD) or an RFC 3339 timestamp"
)

type CreateDiaryInput struct {
	SelectedDate string  `json:"selectedDate" validate:"required"`
	DayQuality   string  `json:"dayQuality" validate:"required,max=20"`
	Thoughts     string  `json:"thoughts" validate:"required,max=255"`
	Highlight    *string `json:"highlight" validate:"omitnil,max=255"`
}

// UpdateDiaryInput is a partial update; nil fields keep their stored value.
// A present selectedDate, dayQuality or thoughts may not be empty.
type UpdateDiaryInput struct {
	SelectedDate *string `json:"selectedDate" validate:"omitnil,min=1"`
	DayQuality   *string `json:"dayQuality" validate:"omitnil,min=1,max=20"`
	Thoughts     *string `json:"thoughts" validate:"omitnil,min=1,max=255"`
	Highlight    *string `json:"highlight" validate:"omitnil,max=255"`
}

type DiaryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDiaryService(db *sql.DB, m repomanager.RepositoryManager) *DiaryService {
	return &DiaryService{db: db, repomanager: m}
}

// Create stores a new entry owned by the caller.
func (s *DiaryService) Create(ctx context.Context, scope models.Scope, in CreateDiaryInput) (*models.DiaryEntry, error) {
	in.SelectedDate = strings.TrimSpace(in.SelectedDate)
	in.DayQuality = strings.TrimSpace(in.DayQuality)
	if err := check(in, msgDiaryFieldsMiss); err != nil {
		return nil, err
	}
	date, err := parseDate(in.SelectedDate)
	if err != nil {
		return nil, err
	}

	entry, err := s.repomanager.Diaries(s.db).Create(ctx, &models.DiaryEntry{
		UserID:       scope.UserID,
		SelectedDate: date,
		DayQuality:   in.DayQuality,
		Thoughts:     in.Thoughts,
		Highlight:    in.Highlight,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// the owner was deleted after the token was issued
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, apperror.Internal(msgInternal, err)
	}
	return entry, nil
}

// List returns the caller's entries, or every entry for admins.
func (s *DiaryService) List(ctx context.Context, scope models.Scope) ([]models.DiaryEntry, error) {
	entries, err := s.repomanager.Diaries(s.db).List(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(msgInternal, err)
	}
	return entries, nil
}

func (s *DiaryService) Get(ctx context.Context, scope models.Scope, id int64) (*models.DiaryEntry, error) {
	entry, err := s.repomanager.Diaries(s.db).Get(ctx, id, scope)
	if err != nil {
		return nil, diaryError(err)
	}
	return entry, nil
}

// Update applies only the fields present in in.
func (s *DiaryService) Update(ctx context.Context, scope models.Scope, id int64, in UpdateDiaryInput) (*models.DiaryEntry, error) {
	if in.SelectedDate != nil {
		v := strings.TrimSpace(*in.SelectedDate)
		in.SelectedDate = &v
	}
	if in.DayQuality != nil {
		v := strings.TrimSpace(*in.DayQuality)
		in.DayQuality = &v
	}
	if err := check(in, msgDiaryFieldsMiss); err != nil {
		return nil, err
	}

	patch := models.DiaryPatch{
		DayQuality: in.DayQuality,
		Thoughts:   in.Thoughts,
		Highlight:  in.Highlight,
	}
	if in.SelectedDate != nil {
		date, err := parseDate(*in.SelectedDate)
		if err != nil {
			return nil, err
		}
		patch.SelectedDate = &date
	}

	entry, err := s.repomanager.Diaries(s.db).Update(ctx, id, scope, patch)
	if err != nil {
		return nil, diaryError(err)
	}
	return entry, nil
}

func (s *DiaryService) Delete(ctx context.Context, scope models.Scope, id int64) error {
	if err := s.repomanager.Diaries(s.db).Delete(ctx, id, scope); err != nil {
		return diaryError(err)
	}
	return nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns
// it in UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperror.Validation(msgInvalidDate, nil)
}

func diaryError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return apperror.NotFound(msgDiaryNotFound)
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Internal(msgInternal, err)
}
