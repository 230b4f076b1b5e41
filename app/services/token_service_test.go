package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHMACTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(accessTTL, refreshTTL, "cutroom-academy", "cutroom-api", false, "", "", "unit-test-secret-key")
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("HMACRequiresSecret", func(t *testing.T) {
		_, err := NewTokenService(15*time.Minute, 24*time.Hour, "iss", "aud", false, "", "", "")
		assert.Error(t, err)
	})

	t.Run("RSARequiresBothKeys", func(t *testing.T) {
		_, err := NewTokenService(15*time.Minute, 24*time.Hour, "iss", "aud", true, "", "", "")
		assert.Error(t, err)
	})
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newHMACTokenService(t, 15*time.Minute, 24*time.Hour)

	access, refresh, err := svc.GenerateTokens(42, "crm_user")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	t.Run("AccessClaims", func(t *testing.T) {
		claims, err := svc.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.ProfileID)
		assert.Equal(t, "crm_user", claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
	})

	t.Run("RefreshClaims", func(t *testing.T) {
		claims, err := svc.ValidateToken(refresh)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.ProfileID)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("TokenIDsAreUnique", func(t *testing.T) {
		access2, refresh2, err := svc.GenerateTokens(42, "crm_user")
		require.NoError(t, err)

		first, err := svc.ValidateToken(access)
		require.NoError(t, err)
		second, err := svc.ValidateToken(access2)
		require.NoError(t, err)
		assert.NotEqual(t, first.TokenID, second.TokenID)
		assert.NotEqual(t, access, access2)
		assert.NotEqual(t, refresh, refresh2)
	})
}

func TestValidateTokenFailures(t *testing.T) {
	svc := newHMACTokenService(t, 15*time.Minute, 24*time.Hour)

	t.Run("GarbageToken", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("EmptyToken", func(t *testing.T) {
		_, err := svc.ValidateToken("")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other, err := NewTokenService(15*time.Minute, 24*time.Hour, "cutroom-academy", "cutroom-api", false, "", "", "another-secret")
		require.NoError(t, err)

		access, _, err := other.GenerateTokens(1, "admin")
		require.NoError(t, err)

		_, err = svc.ValidateToken(access)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expired := newHMACTokenService(t, -1*time.Minute, -1*time.Minute)
		access, _, err := expired.GenerateTokens(1, "admin")
		require.NoError(t, err)

		_, err = expired.ValidateToken(access)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestRefreshToken(t *testing.T) {
	svc := newHMACTokenService(t, 15*time.Minute, 24*time.Hour)

	_, refresh, err := svc.GenerateTokens(7, "viewer")
	require.NoError(t, err)

	t.Run("IssuesFreshPair", func(t *testing.T) {
		newAccess, newRefresh, err := svc.RefreshToken(refresh)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.ProfileID)
		assert.Equal(t, "viewer", claims.Role)
		assert.Equal(t, "access", claims.TokenType)

		refreshClaims, err := svc.ValidateToken(newRefresh)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refreshClaims.TokenType)
	})

	t.Run("RejectsAccessToken", func(t *testing.T) {
		access, _, err := svc.GenerateTokens(7, "viewer")
		require.NoError(t, err)

		_, _, err = svc.RefreshToken(access)
		assert.Error(t, err)
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		_, _, err := svc.RefreshToken("bogus")
		assert.Error(t, err)
	})
}
