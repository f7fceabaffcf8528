package accounts

import (
	"context"
	"testing"

	"go-bookstore/apperr"
	"go-bookstore/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*Service, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return NewService(s, zerolog.Nop()), s
}

func TestRegister(t *testing.T) {
	svc, s := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "newuser@example.com", "securepass123", "New User", "123 Test Street")
	require.NoError(t, err)
	assert.Equal(t, "newuser@example.com", u.Email)
	assert.NotEqual(t, "securepass123", u.Password)

	stored, err := s.FindUser(ctx, "newuser@example.com")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("securepass123"))
}

func TestRegister_InvalidEmailFormat(t *testing.T) {
	svc, s := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "test@wrongemail", "securepass123", "Bad Email", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidEmail)
	assert.Equal(t, "Invalid email format", err.Error())

	_, err = s.FindUser(ctx, "test@wrongemail")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestRegister_DuplicateIgnoresCase(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "existing@example.com", "securepass123", "Existing", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "EXISTING@EXAMPLE.COM", "anotherpass123", "Duplicate", "")
	assert.ErrorIs(t, err, apperr.ErrUserExists)

	u, err := svc.Authenticate(ctx, "existing@example.com", "securepass123")
	require.NoError(t, err)
	assert.Equal(t, "Existing", u.Name)
}

func TestRegister_MissingPassword(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), "a@b.com", "", "", "")
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "password", appErr.Field)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Register(ctx, "demo@bookstore.com", "demo123", "Demo User", "")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "Demo@Bookstore.com", "demo123")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", u.Name)

	_, err = svc.Authenticate(ctx, "demo@bookstore.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password", err.Error())

	_, err = svc.Authenticate(ctx, "nobody@bookstore.com", "demo123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Register(ctx, "demo@bookstore.com", "demo123", "Demo User", "")
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, "demo@bookstore.com", ProfileUpdate{
		Name:        "Updated Demo",
		Address:     "123 Updated Street",
		NewPassword: "newpass123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Demo", u.Name)
	assert.Equal(t, "123 Updated Street", u.Address)
	assert.NotEqual(t, "newpass123", u.Password)

	_, err = svc.Authenticate(ctx, "demo@bookstore.com", "demo123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "demo@bookstore.com", "newpass123")
	assert.NoError(t, err)
}

func TestUpdateProfile_BlankFieldsKept(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Register(ctx, "a@b.com", "pw", "Alice", "1 Road")
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, "a@b.com", ProfileUpdate{Address: "2 Road"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "2 Road", u.Address)

	_, err = svc.Authenticate(ctx, "a@b.com", "pw")
	assert.NoError(t, err)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc, _ := newService()

	_, err := svc.UpdateProfile(context.Background(), "ghost@example.com", ProfileUpdate{Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
