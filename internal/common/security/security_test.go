package security

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenManagerIssueAndVerify(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), time.Hour)

	issued, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	tok, err := jwtauth.VerifyToken(m.Auth(), issued.Token)
	require.NoError(t, err)
	claims, err := tok.AsMap(context.Background())
	require.NoError(t, err)

	userID, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	jti, err := GetTokenIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, jti)
}

func TestTokenManagerRejectsExpiredAndForeignTokens(t *testing.T) {
	expired := NewTokenManager([]byte("test-secret"), -time.Minute)
	issued, err := expired.Issue("user-1")
	require.NoError(t, err)
	_, err = jwtauth.VerifyToken(expired.Auth(), issued.Token)
	assert.Error(t, err)

	other := NewTokenManager([]byte("other-secret"), time.Hour)
	foreign, err := other.Issue("user-1")
	require.NoError(t, err)
	_, err = jwtauth.VerifyToken(NewTokenManager([]byte("test-secret"), time.Hour).Auth(), foreign.Token)
	assert.Error(t, err)
}

func TestClaimHelpersRejectMissingValues(t *testing.T) {
	_, err := GetUserIDFromClaims(map[string]interface{}{})
	assert.Error(t, err)
	_, err = GetTokenIDFromClaims(map[string]interface{}{"jti": 42})
	assert.Error(t, err)
}
