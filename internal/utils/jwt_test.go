package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", JWTExpirationMinutes: 5}
	p := &models.Professional{BaseModel: models.BaseModel{ID: "pro-1"}, Email: "a@clinic.test"}

	token, err := GenerateAccessToken(p, cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "pro-1", claims.ProfessionalID)
	assert.Equal(t, "a@clinic.test", claims.Email)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", JWTExpirationMinutes: -1}
	p := &models.Professional{BaseModel: models.BaseModel{ID: "pro-1"}}

	token, err := GenerateAccessToken(p, cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}
