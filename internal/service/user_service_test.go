package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/service"
	"github.com/cnovais/flashdeck-api/internal/service/auth"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// fakeUserStore is an in-memory UserStore keyed by id and email.
type fakeUserStore struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUserService(t *testing.T) (service.UserService, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	return service.NewUserService(users, auth.NewBcryptVerifier(), testLogger()), users
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		t.Parallel()

		svc, users := newUserService(t)
		user, err := svc.Register(context.Background(), "learner@example.com", "a long enough password")
		require.NoError(t, err)

		assert.Equal(t, "learner@example.com", user.Email)
		assert.Empty(t, user.Password, "plaintext must not survive registration")
		assert.NotEmpty(t, user.HashedPassword)
		assert.NotEqual(t, "a long enough password", user.HashedPassword)

		stored, err := users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, stored.Email)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		t.Parallel()

		svc, _ := newUserService(t)
		_, err := svc.Register(context.Background(), "learner@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		t.Parallel()

		svc, _ := newUserService(t)
		_, err := svc.Register(context.Background(), "learner@example.com", "a long enough password")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "learner@example.com", "another long password")
		assert.ErrorIs(t, err, service.ErrEmailTaken)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc, _ := newUserService(t)
	registered, err := svc.Register(
		context.Background(), "learner@example.com", "a long enough password")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(
			context.Background(), "learner@example.com", "a long enough password")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(
			context.Background(), "learner@example.com", "not the password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		_, err := svc.Authenticate(
			context.Background(), "nobody@example.com", "a long enough password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
