package httpapi

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/diary/internal/apperror"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/services"
)

type fakeUsers struct {
	signupIn  services.SignupInput
	signupErr error

	loginOut *services.LoginResult
	loginErr error

	lastScope models.Scope
	lastID    int64
	updateIn  services.UpdateUserInput
	err       error
}

func (f *fakeUsers) Signup(_ context.Context, in services.SignupInput) (*models.User, error) {
	f.signupIn = in
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &models.User{ID: 1, Username: in.Username, Email: in.Email}, nil
}

func (f *fakeUsers) Login(_ context.Context, _ services.LoginInput) (*services.LoginResult, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeUsers) Get(_ context.Context, scope models.Scope, id int64) (*models.PublicUser, error) {
	f.lastScope, f.lastID = scope, id
	if f.err != nil {
		return nil, f.err
	}
	return &models.PublicUser{ID: id, Username: "alice", Email: "alice@example.com"}, nil
}

func (f *fakeUsers) Update(_ context.Context, scope models.Scope, id int64, in services.UpdateUserInput) (*models.PublicUser, error) {
	f.lastScope, f.lastID, f.updateIn = scope, id, in
	if f.err != nil {
		return nil, f.err
	}
	p := &models.PublicUser{ID: id, Username: "alice", Email: "alice@example.com"}
	if in.Username != nil {
		p.Username = *in.Username
	}
	return p, nil
}

func (f *fakeUsers) Delete(_ context.Context, scope models.Scope, id int64) error {
	f.lastScope, f.lastID = scope, id
	return f.err
}

type fakeDiaries struct {
	entries   map[int64]*models.DiaryEntry
	lastScope models.Scope
	err       error
}

func newFakeDiaries() *fakeDiaries {
	return &fakeDiaries{entries: map[int64]*models.DiaryEntry{}}
}

func (f *fakeDiaries) Create(_ context.Context, scope models.Scope, in services.CreateDiaryInput) (*models.DiaryEntry, error) {
	f.lastScope = scope
	if f.err != nil {
		return nil, f.err
	}
	if in.SelectedDate == "" || in.DayQuality == "" || in.Thoughts == "" {
		return nil, apperror.Validation("Please provide all required fields", nil)
	}
	e := &models.DiaryEntry{EntryID: int64(len(f.entries) + 1), UserID: scope.UserID, DayQuality: in.DayQuality, Thoughts: in.Thoughts}
	f.entries[e.EntryID] = e
	return e, nil
}

func (f *fakeDiaries) List(_ context.Context, scope models.Scope) ([]models.DiaryEntry, error) {
	f.lastScope = scope
	if f.err != nil {
		return nil, f.err
	}
	out := []models.DiaryEntry{}
	for _, e := range f.entries {
		if scope.Allows(e.UserID) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeDiaries) Get(_ context.Context, scope models.Scope, id int64) (*models.DiaryEntry, error) {
	f.lastScope = scope
	e, ok := f.entries[id]
	if !ok || !scope.Allows(e.UserID) {
		return nil, apperror.NotFound("Diary entry not found")
	}
	return e, nil
}

func (f *fakeDiaries) Update(_ context.Context, scope models.Scope, id int64, in services.UpdateDiaryInput) (*models.DiaryEntry, error) {
	e, ok := f.entries[id]
	if !ok || !scope.Allows(e.UserID) {
		return nil, apperror.NotFound("Diary entry not found")
	}
	if in.Thoughts != nil {
		e.Thoughts = *in.Thoughts
	}
	return e, nil
}

func (f *fakeDiaries) Delete(_ context.Context, scope models.Scope, id int64) error {
	e, ok := f.entries[id]
	if !ok || !scope.Allows(e.UserID) {
		return apperror.NotFound("Diary entry not found")
	}
	delete(f.entries, id)
	return nil
}

type fakeFavorites struct {
	lastScope models.Scope
	lastID    int64
	diaryID   int64
	favorited bool
	err       error
}

func (f *fakeFavorites) Add(_ context.Context, scope models.Scope, diaryID int64) (*models.FavoriteDay, error) {
	f.lastScope, f.diaryID = scope, diaryID
	if diaryID == 0 {
		return nil, apperror.Validation("Diary ID is required", nil)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.FavoriteDay{ID: 7, UserID: scope.UserID, DiaryID: diaryID}, nil
}

func (f *fakeFavorites) List(_ context.Context, scope models.Scope) ([]models.FavoriteWithDiary, error) {
	f.lastScope = scope
	return []models.FavoriteWithDiary{{
		FavoriteDay: models.FavoriteDay{ID: 7, UserID: scope.UserID, DiaryID: 3},
		DiaryEntry:  models.DiaryEntry{EntryID: 3, UserID: scope.UserID, Thoughts: "sunny"},
	}}, f.err
}

func (f *fakeFavorites) Get(_ context.Context, scope models.Scope, id int64) (*models.FavoriteWithDiary, error) {
	f.lastScope, f.lastID = scope, id
	if f.err != nil {
		return nil, f.err
	}
	return &models.FavoriteWithDiary{FavoriteDay: models.FavoriteDay{ID: id, UserID: scope.UserID, DiaryID: 3}}, nil
}

func (f *fakeFavorites) Update(_ context.Context, scope models.Scope, id, diaryID int64) (*models.FavoriteDay, error) {
	f.lastScope, f.lastID, f.diaryID = scope, id, diaryID
	if f.err != nil {
		return nil, f.err
	}
	return &models.FavoriteDay{ID: id, UserID: scope.UserID, DiaryID: diaryID}, nil
}

func (f *fakeFavorites) Remove(_ context.Context, scope models.Scope, id int64) error {
	f.lastScope, f.lastID = scope, id
	return f.err
}

func (f *fakeFavorites) Toggle(_ context.Context, scope models.Scope, diaryID int64) (*services.ToggleResult, error) {
	f.lastScope, f.diaryID = scope, diaryID
	if f.err != nil {
		return nil, f.err
	}
	f.favorited = !f.favorited
	if !f.favorited {
		return &services.ToggleResult{Favorited: false}, nil
	}
	return &services.ToggleResult{
		Favorited: true,
		Favorite:  &models.FavoriteDay{ID: 9, UserID: scope.UserID, DiaryID: diaryID},
	}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

var errBoom = errors.New("boom")
