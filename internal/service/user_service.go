package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/service/auth"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// UserService provides registration, authentication and lookup of users.
type UserService interface {
	// Register creates a new user with the given credentials.
	// Returns ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate verifies the credentials and returns the matching user.
	// Returns auth.ErrInvalidCredentials on any mismatch; it does not
	// reveal whether the email exists.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// userService implements UserService.
type userService struct {
	userStore store.UserStore
	passwords auth.PasswordVerifier
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	passwords auth.PasswordVerifier,
	logger *slog.Logger,
) UserService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if passwords == nil {
		panic("passwords cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &userService{
		userStore: userStore,
		passwords: passwords,
		logger:    logger.With("component", "user_service"),
	}
}

// Register implements UserService.Register.
func (s *userService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.passwords.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user by email", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser implements UserService.GetUser.
func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

var _ UserService = (*userService)(nil)
