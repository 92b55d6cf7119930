package middleware

import (
	"testing"

	"fixdesk/config"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	token, err := GenerateJWT(42, "rita", "standard", "rita@example.com")
	req.NoError(err)

	userID, role, err := ParseToken(token)
	req.NoError(err)
	req.EqualValues(42, userID)
	req.Equal("standard", role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	req := require.New(t)
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	_, _, err := ParseToken("not-a-token")
	req.Error(err)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	req := require.New(t)

	config.AppConfig = &config.Config{JWTKey: "first-secret"}
	token, err := GenerateJWT(7, "sam", "service_desk", "sam@example.com")
	req.NoError(err)

	config.AppConfig = &config.Config{JWTKey: "other-secret"}
	_, _, err = ParseToken(token)
	req.Error(err)
}
