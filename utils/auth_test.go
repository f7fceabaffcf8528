package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)

	token, err := ti.GenerateJWT("demo@bookstore.com", "Demo User")
	require.NoError(t, err)

	claims, err := ti.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "demo@bookstore.com", claims.Email)
	assert.Equal(t, "Demo User", claims.Name)
}

func TestTokenIssuer_RejectsOtherKey(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).GenerateJWT("a@b.com", "")
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Minute)
	ti.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := ti.GenerateJWT("a@b.com", "")
	require.NoError(t, err)

	_, err = ti.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
