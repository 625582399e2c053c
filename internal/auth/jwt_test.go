package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestSecret(t *testing.T, secret string) {
	t.Helper()

	t.Setenv("JWT_SECRET", secret)
	require.NoError(t, InitJWTSecret())
}

func TestInitJWTSecret(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		assert.Error(t, InitJWTSecret())
	})

	t.Run("default TTL", func(t *testing.T) {
		initTestSecret(t, "test-secret")
		assert.Equal(t, 30*time.Minute, AccessTokenTTL())
	})

	t.Run("TTL from environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
		require.NoError(t, InitJWTSecret())
		assert.Equal(t, 45*time.Minute, AccessTokenTTL())
	})

	t.Run("invalid TTL", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "soon")
		assert.Error(t, InitJWTSecret())
	})
}

func TestGenerateAndVerifyToken(t *testing.T) {
	initTestSecret(t, "test-secret")

	token, err := GenerateToken("alice", time.Hour)
	require.NoError(t, err)

	subject, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestVerifyTokenRejections(t *testing.T) {
	initTestSecret(t, "test-secret")

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken("alice", -time.Second)
		require.NoError(t, err)

		_, err = VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := VerifyToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "alice",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = VerifyToken(forged)
		assert.Error(t, err)
	})

	t.Run("token without a subject", func(t *testing.T) {
		claims := jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = VerifyToken(anonymous)
		assert.Error(t, err)
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "alice",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = VerifyToken(unsigned)
		assert.Error(t, err)
	})
}
