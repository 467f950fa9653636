package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diary/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/diary/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memStore backs all three fake repositories so that favorites can see
// diary entries the way the joined SQL does.
type memStore struct {
	nextID    int64
	users     map[int64]*models.User
	entries   map[int64]*models.DiaryEntry
	favorites map[int64]*models.FavoriteDay

	err error // returned by every call when set
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[int64]*models.User{},
		entries:   map[int64]*models.DiaryEntry{},
		favorites: map[int64]*models.FavoriteDay{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(name, email string, role models.Role) *models.User {
	u := &models.User{ID: s.id(), Username: name, Email: email, PasswordHash: "hashed:secret1", Role: role}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addEntry(userID int64, thoughts string) *models.DiaryEntry {
	e := &models.DiaryEntry{
		EntryID:      s.id(),
		UserID:       userID,
		SelectedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DayQuality:   "good",
		Thoughts:     thoughts,
	}
	s.entries[e.EntryID] = e
	return e
}

type fakeRepoManager struct {
	store *memStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return &fakeUsersRepo{m.store} }
func (m *fakeRepoManager) Diaries(dbx.DBTX) diaries.Repository         { return &fakeDiariesRepo{m.store} }
func (m *fakeRepoManager) Favorites(dbx.DBTX) favorites.Repository     { return &fakeFavoritesRepo{m.store} }

type fakeUsersRepo struct{ s *memStore }

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.ID = r.s.id()
	r.s.users[c.ID] = &c
	return &c, nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) Update(_ context.Context, id int64, p models.UserPatch) (*models.User, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Email != nil {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == *p.Email {
				return nil, common.ErrorAlreadyExists
			}
		}
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	c := *u
	return &c, nil
}

func (r *fakeUsersRepo) Delete(_ context.Context, id int64) error {
	if r.s.err != nil {
		return r.s.err
	}
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	for eid, e := range r.s.entries {
		if e.UserID == id {
			delete(r.s.entries, eid)
		}
	}
	for fid, f := range r.s.favorites {
		if f.UserID == id {
			delete(r.s.favorites, fid)
		}
	}
	return nil
}

type fakeDiariesRepo struct{ s *memStore }

func (r *fakeDiariesRepo) Create(_ context.Context, e *models.DiaryEntry) (*models.DiaryEntry, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	if _, ok := r.s.users[e.UserID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *e
	c.EntryID = r.s.id()
	r.s.entries[c.EntryID] = &c
	out := c
	return &out, nil
}

func (r *fakeDiariesRepo) List(_ context.Context, scope models.Scope) ([]models.DiaryEntry, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := []models.DiaryEntry{}
	for _, e := range r.s.entries {
		if scope.Allows(e.UserID) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryID > out[j].EntryID })
	return out, nil
}

func (r *fakeDiariesRepo) Get(_ context.Context, id int64, scope models.Scope) (*models.DiaryEntry, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	e, ok := r.s.entries[id]
	if !ok || !scope.Allows(e.UserID) {
		return nil, common.ErrorNotFound
	}
	c := *e
	return &c, nil
}

func (r *fakeDiariesRepo) Update(_ context.Context, id int64, scope models.Scope, p models.DiaryPatch) (*models.DiaryEntry, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	e, ok := r.s.entries[id]
	if !ok || !scope.Allows(e.UserID) {
		return nil, common.ErrorNotFound
	}
	if p.SelectedDate != nil {
		e.SelectedDate = *p.SelectedDate
	}
	if p.DayQuality != nil {
		e.DayQuality = *p.DayQuality
	}
	if p.Thoughts != nil {
		e.Thoughts = *p.Thoughts
	}
	if p.Highlight != nil {
		e.Highlight = p.Highlight
	}
	c := *e
	return &c, nil
}

func (r *fakeDiariesRepo) Delete(_ context.Context, id int64, scope models.Scope) error {
	if r.s.err != nil {
		return r.s.err
	}
	e, ok := r.s.entries[id]
	if !ok || !scope.Allows(e.UserID) {
		return common.ErrorNotFound
	}
	delete(r.s.entries, id)
	for fid, f := range r.s.favorites {
		if f.DiaryID == id {
			delete(r.s.favorites, fid)
		}
	}
	return nil
}

type fakeFavoritesRepo struct{ s *memStore }

func (r *fakeFavoritesRepo) Create(_ context.Context, userID, diaryID int64) (*models.FavoriteDay, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	if _, ok := r.s.entries[diaryID]; !ok {
		return nil, common.ErrorNotFound
	}
	for _, f := range r.s.favorites {
		if f.UserID == userID && f.DiaryID == diaryID {
			return nil, common.ErrorAlreadyExists
		}
	}
	f := &models.FavoriteDay{ID: r.s.id(), UserID: userID, DiaryID: diaryID}
	r.s.favorites[f.ID] = f
	c := *f
	return &c, nil
}

func (r *fakeFavoritesRepo) ListByUser(_ context.Context, userID int64) ([]models.FavoriteWithDiary, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := []models.FavoriteWithDiary{}
	for _, f := range r.s.favorites {
		if f.UserID == userID {
			out = append(out, models.FavoriteWithDiary{FavoriteDay: *f, DiaryEntry: *r.s.entries[f.DiaryID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFavoritesRepo) Get(_ context.Context, id int64, scope models.Scope) (*models.FavoriteWithDiary, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	f, ok := r.s.favorites[id]
	if !ok || !scope.Allows(f.UserID) {
		return nil, common.ErrorNotFound
	}
	return &models.FavoriteWithDiary{FavoriteDay: *f, DiaryEntry: *r.s.entries[f.DiaryID]}, nil
}

func (r *fakeFavoritesRepo) FindByPair(_ context.Context, userID, diaryID int64) (*models.FavoriteDay, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, f := range r.s.favorites {
		if f.UserID == userID && f.DiaryID == diaryID {
			c := *f
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeFavoritesRepo) UpdateDiary(_ context.Context, id int64, scope models.Scope, diaryID int64) (*models.FavoriteDay, error) {
	if r.s.err != nil {
		return nil, r.s.err
	}
	f, ok := r.s.favorites[id]
	if !ok || !scope.Allows(f.UserID) {
		return nil, common.ErrorNotFound
	}
	for _, other := range r.s.favorites {
		if other.ID != id && other.UserID == f.UserID && other.DiaryID == diaryID {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.DiaryID = diaryID
	c := *f
	return &c, nil
}

func (r *fakeFavoritesRepo) Delete(_ context.Context, id int64, scope models.Scope) error {
	if r.s.err != nil {
		return r.s.err
	}
	f, ok := r.s.favorites[id]
	if !ok || !scope.Allows(f.UserID) {
		return common.ErrorNotFound
	}
	delete(r.s.favorites, id)
	return nil
}

// fakeHasher "hashes" by prefixing, which keeps assertions readable.
type fakeHasher struct{ err error }

func (h fakeHasher) Hash(p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + p, nil
}

func (h fakeHasher) Verify(p, hash string) bool { return hash == "hashed:"+p }

type fakeTokens struct {
	issued []auth.Identity
	err    error
}

func (f *fakeTokens) Issue(id auth.Identity) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issued = append(f.issued, id)
	return "token-" + id.Email, nil
}

