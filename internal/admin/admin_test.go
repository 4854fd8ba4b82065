package admin

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyToken(t *testing.T) {
	hash, err := HashToken("s3cret")
	require.NoError(t, err)

	assert.True(t, VerifyToken(hash, "s3cret"))
	assert.False(t, VerifyToken(hash, "wrong"))
	assert.False(t, VerifyToken("", "s3cret"))
	assert.False(t, VerifyToken(hash, ""))
}

func TestSessionRoundTrip(t *testing.T) {
	token, exp, err := IssueSession("key", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	assert.NoError(t, ValidateSession("key", token))
	assert.ErrorIs(t, ValidateSession("other-key", token), ErrInvalidToken)
	assert.ErrorIs(t, ValidateSession("key", "garbage"), ErrInvalidToken)
}

func TestExpiredSessionRejected(t *testing.T) {
	token, _, err := IssueSession("key", -time.Minute)
	require.NoError(t, err)

	assert.ErrorIs(t, ValidateSession("key", token), ErrInvalidToken)
}

func TestSessionRequiresAdminRole(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "player",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("key"))
	require.NoError(t, err)

	assert.ErrorIs(t, ValidateSession("key", signed), ErrInvalidToken)
}
