package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"budgetmate/internal/auth"
	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/model"
	"budgetmate/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role model.Role, callerIsAdmin bool) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with a hashed password. A caller-supplied role
// is honored only when the request was made by a verified admin; everyone
// else gets the default role regardless of what the body claims.
func (s *authService) Register(ctx context.Context, name, email, password string, role model.Role, callerIsAdmin bool) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	assignedRole := model.RoleUser
	if callerIsAdmin && role.Valid() {
		assignedRole = role
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         assignedRole,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index is the arbiter under concurrent registrations:
		// the losing request sees a duplicate-key error, not a silent dup.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates by email and password and issues a token embedding
// the user's id and role. An unknown email and a wrong password map to
// distinct errors so the handler can answer 404 and 401 respectively.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrUserNotFound
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidPassword
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// Logout best-effort revokes the presented token until its natural expiry.
// Tokens are otherwise stateless, so a blacklist miss (redis down) leaves
// the client responsible for discarding the token.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	return s.tokenStore.BlacklistToken(ctx, claims.ID, claims.RemainingTTL())
}
