package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGenerateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken("test-secret-key", "user-123", "a@b.test", time.Hour)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

func TestParseToken(t *testing.T) {
	secret := "test-secret-key"
	userID := "user-123"

	t.Run("valid token", func(t *testing.T) {
		token, _, err := GenerateToken(secret, userID, "a@b.test", time.Hour)
		assert.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.NoError(t, err)
		assert.Equal(t, userID, claims.Sub)
		assert.Equal(t, "a@b.test", claims.Email)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("invalid signature", func(t *testing.T) {
		token, _, err := GenerateToken("wrong-secret", userID, "a@b.test", time.Hour)
		assert.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		c := Claims{
			Sub: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		assert.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Sub: userID}).SignedString([]byte(secret))
		assert.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ParseToken(secret, "not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}
