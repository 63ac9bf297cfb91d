package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	jwtsvc "github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/pkg/jwt"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	j := jwtsvc.New("test-secret", time.Hour)
	svc := NewService(hashFor(t, "open sesame"), j)

	token, err := svc.Login("open sesame")

	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(hashFor(t, "open sesame"), jwtsvc.New("test-secret", time.Hour))

	_, err := svc.Login("wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginNotConfigured(t *testing.T) {
	svc := NewService("", jwtsvc.New("test-secret", time.Hour))

	_, err := svc.Login("anything")

	assert.ErrorIs(t, err, ErrNotConfigured)
}
