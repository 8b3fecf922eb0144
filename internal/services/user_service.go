// Package services – UserService
//
// This file implements the UserService, which owns the account lifecycle:
// registration with credential hashing and unique-email enforcement,
// partial profile updates, and deletion (which purges every dependent row
// via the database cascade).
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

// PasswordHasher abstracts credential hashing so the service never sees a
// concrete algorithm. The default implementation lives in internal/auth.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) bool
}

// UserService provides account operations.
type UserService struct {
	DB     *gorm.DB
	Hasher PasswordHasher
}

// Create registers a new account. The email must be unique; a collision
// returns ErrEmailTaken. The password is hashed before it touches storage.
func (s *UserService) Create(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	hashed, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		HashedPassword: hashed,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		IsActive:       true,
		Role:           domain.RoleUser,
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil && *in.IsSuperuser {
		u.IsSuperuser = true
		u.Role = domain.RoleSuperAdmin
	}
	created, err := repo.CreateUser(ctx, s.DB, u)
	if err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// List returns one page of accounts plus the total row count.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]domain.User, int64, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	total, err := repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListUsersPage(ctx, s.DB, skip, limit)
	return items, total, err
}

// Get fetches a user by id, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies an email/password pair and returns the account.
// Both an unknown email and a bad password yield ErrUserNotFound so the
// caller cannot distinguish the two.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !s.Hasher.Verify(u.HashedPassword, password) {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Update applies a partial update to an account: only fields present in
// the payload change, updated_at is refreshed unconditionally, and an
// email change that collides with another account returns ErrEmailTaken.
func (s *UserService) Update(ctx context.Context, id string, in domain.UserUpdate) (*domain.User, error) {
	cols := map[string]any{}
	if in.Email != nil {
		cols["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Password != nil {
		hashed, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		cols["hashed_password"] = hashed
	}
	if in.FirstName != nil {
		cols["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		cols["last_name"] = *in.LastName
	}
	if in.IsActive != nil {
		cols["is_active"] = *in.IsActive
	}
	cols["updated_at"] = time.Now().UTC()

	if err := repo.UpdateUser(ctx, s.DB, id, cols); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		if repo.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete physically removes an account and, through the cascade, every
// item, patient, session, payment, ledger entry, and notification it owns.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteUser(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
