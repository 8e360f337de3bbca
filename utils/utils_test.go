package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/api/models"
)

func TestParseDateParam(t *testing.T) {
	fallback := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseDateParam("", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	got, err = ParseDateParam("2017-03-15", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDateParam("2017-03-15T22:10:00-03:00", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, 3, 16, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDateParam("15/03/2017", fallback)
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateJWT(&models.User{ID: 7, Email: "ana@example.com"})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	SetJWTSecret("other-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
