package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/api/pkg/jwt"
)

const testSecret = "test-secret-test-secret-test-secret"

func TestNewManager(t *testing.T) {
	t.Run("requires a secret", func(t *testing.T) {
		_, err := jwt.NewManager("", "stocklane", time.Hour)
		assert.Error(t, err)
	})

	t.Run("defaults the ttl", func(t *testing.T) {
		_, err := jwt.NewManager(testSecret, "stocklane", 0)
		assert.NoError(t, err)
	})
}

func TestManager_GenerateValidate(t *testing.T) {
	m, err := jwt.NewManager(testSecret, "stocklane", time.Hour)
	require.NoError(t, err)

	t.Run("roundtrip preserves the principal", func(t *testing.T) {
		token, err := m.Generate("user-1", "company-1", "worker@example.com", "Worker")
		require.NoError(t, err)

		claims, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "company-1", claims.CompanyID)
		assert.Equal(t, "worker@example.com", claims.Email)
		assert.Equal(t, "stocklane", claims.Issuer)
		assert.Equal(t, "user-1", claims.Subject)
	})

	t.Run("empty user id is rejected", func(t *testing.T) {
		_, err := m.Generate("", "company-1", "", "")
		assert.ErrorIs(t, err, jwt.ErrEmptyUserID)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := gojwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}
		raw := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
		token, err := raw.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other, err := jwt.NewManager("another-secret-another-secret-12", "stocklane", time.Hour)
		require.NoError(t, err)

		token, err := other.Generate("user-1", "", "", "")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("non-hmac signing method is rejected", func(t *testing.T) {
		raw := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{Subject: "user-1"})
		token, err := raw.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
