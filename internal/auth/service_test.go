package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
	"storefront/internal/repository"
)

type fakeAdminStore struct {
	admin *models.Admin
}

func (f *fakeAdminStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	if f.admin == nil || f.admin.Email != email {
		return nil, repository.ErrAdminNotFound
	}
	return f.admin, nil
}

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &fakeAdminStore{admin: &models.Admin{
		Email:        "admin@example.com",
		PasswordHash: string(hash),
	}}
	return NewService(store, "test-secret", ttl)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		token, err := svc.Login(ctx, "admin@example.com", "hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NoError(t, svc.ParseToken(token))
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestParseToken(t *testing.T) {
	t.Run("Garbage", func(t *testing.T) {
		svc := newTestService(t, time.Hour)
		assert.ErrorIs(t, svc.ParseToken("not-a-token"), ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		svc := newTestService(t, -time.Minute)
		token, err := svc.Login(context.Background(), "admin@example.com", "hunter2")
		require.NoError(t, err)
		assert.ErrorIs(t, svc.ParseToken(token), ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		svc := newTestService(t, time.Hour)
		token, err := svc.Login(context.Background(), "admin@example.com", "hunter2")
		require.NoError(t, err)

		other := NewService(&fakeAdminStore{}, "other-secret", time.Hour)
		assert.ErrorIs(t, other.ParseToken(token), ErrInvalidToken)
	})
}
