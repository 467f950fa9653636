// Package services holds the business rules of the diary API. Services
// return *apperror.AppError values whose Message is safe to show clients.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/diary/internal/apperror"
	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/repositories/repomanager"
)

const (
	msgInternal        = "Internal server error"
	msgUserNotFound    = "User not found"
	msgUserExists      = "User already exists"
	msgInvalidPassword = "Invalid password"
)

type SignupInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Username *string `json:"username" validate:"omitnil,min=1,max=255"`
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=6,max=100"`
	Role     *string `json:"role" validate:"omitnil,oneof=user admin"`
}

type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// UserService handles accounts: signup, login and profile management.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h PasswordHasher, t TokenIssuer) *UserService {
	return &UserService{db: db, repomanager: m, hasher: h, tokens: t}
}

// Signup registers a regular user. A taken email is a 400, as is any
// missing or malformed field.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleUser, "All fields are required")
}

// CreateWithRole registers an account with an explicit role. It backs the
// operator CLI; the HTTP API never grants admin.
func (s *UserService) CreateWithRole(ctx context.Context, in SignupInput, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperror.Validation("role must be one of: user, admin", nil)
	}
	return s.create(ctx, in, role, "All fields are required")
}

func (s *UserService) create(ctx context.Context, in SignupInput, role models.Role, missingMsg string) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := check(in, missingMsg); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.BadRequest(msgUserExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, apperror.Internal(msgInternal, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(msgInternal, err)
	}

	u, err := repo.Create(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, apperror.BadRequest(msgUserExists)
		}
		return nil, apperror.Internal(msgInternal, err)
	}
	return u, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are both 400s.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := check(in, "Please enter email and password"); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperror.BadRequest(msgUserNotFound)
		}
		return nil, apperror.Internal(msgInternal, err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, apperror.BadRequest(msgInvalidPassword)
	}

	token, err := s.tokens.Issue(auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, apperror.Internal(msgInternal, err)
	}

	return &LoginResult{Token: token, User: user.Public()}, nil
}

// Get returns the public projection of user id. Callers may only read
// their own profile unless they are admin.
func (s *UserService) Get(ctx context.Context, scope models.Scope, id int64) (*models.PublicUser, error) {
	if !scope.Allows(id) {
		return nil, apperror.Forbidden("You can only access your own profile")
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	p := user.Public()
	return &p, nil
}

// Update applies the fields present in in. A new password is re-hashed
// before it is stored; only admins may change roles.
func (s *UserService) Update(ctx context.Context, scope models.Scope, id int64, in UpdateUserInput) (*models.PublicUser, error) {
	if !scope.Allows(id) {
		return nil, apperror.Forbidden("You can only update your own profile")
	}
	if in.Role != nil && !scope.Admin {
		return nil, apperror.Forbidden("Only admins can change roles")
	}

	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		in.Username = &v
	}
	if in.Email != nil {
		v := normalizeEmail(*in.Email)
		in.Email = &v
	}
	if err := check(in, "All fields are required"); err != nil {
		return nil, err
	}

	patch := models.UserPatch{Username: in.Username, Email: in.Email}
	if in.Role != nil {
		role := models.Role(*in.Role)
		patch.Role = &role
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, apperror.Internal(msgInternal, err)
		}
		patch.PasswordHash = &hash
	}

	user, err := s.repomanager.Users(s.db).Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, apperror.BadRequest(msgUserExists)
		}
		return nil, userError(err)
	}
	p := user.Public()
	return &p, nil
}

// Delete removes the account. The user's diary entries and favorites go
// with it.
func (s *UserService) Delete(ctx context.Context, scope models.Scope, id int64) error {
	if !scope.Allows(id) {
		return apperror.Forbidden("You can only delete your own profile")
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return userError(err)
	}
	return nil
}

// SetRole changes the role of the account registered under email.
func (s *UserService) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperror.Validation("role must be one of: user, admin", nil)
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetByEmail(ctx, normalizeEmail(email))
		if err != nil {
			return userError(err)
		}
		updated, err = repo.Update(ctx, user.ID, models.UserPatch{Role: &role})
		if err != nil {
			return userError(err)
		}
		return nil
	})
	if err != nil {
		return nil, txError(err)
	}
	return updated, nil
}

func userError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return apperror.NotFound(msgUserNotFound)
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Internal(msgInternal, err)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
