package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"budgetmate/internal/cache"
	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/model"
	"budgetmate/internal/repository"
)

// UserUpdate carries the optional fields of a partial profile update.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService handles profile reads, updates, deletion and the admin listing.
type UserService interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	UpdateSelf(ctx context.Context, id uint, update UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id uint) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	cache    Cache
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository, cache Cache) UserService {
	return &userService{userRepo: userRepo, cache: cache}
}

func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateSelf applies a partial update to the caller's own record. A supplied
// password is re-hashed; a supplied email goes through the same unique-index
// arbitration as registration.
func (s *userService) UpdateSelf(ctx context.Context, id uint, update UserUpdate) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	rows, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrUserNotFound
	}
	// The delete cascades to the user's ledger rows, so both their own
	// cached totals and the admin-wide aggregate are stale now.
	_ = s.cache.Delete(ctx, cache.TotalsKey(id))
	_ = s.cache.Delete(ctx, cache.TotalsAllKey)
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}
