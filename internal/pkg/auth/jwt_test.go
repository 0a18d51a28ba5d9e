package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/repairparts-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "repairparts"},
		JWT: config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour},
	}
}

func sign(t *testing.T, claims *Claims, secret string) string {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken("user-7", "tech@example.com", true)
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-7", claims.UserID())
	assert.Equal(t, "tech@example.com", claims.Email)
	assert.True(t, claims.Admin)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	manager := NewJWTManager(testConfig())
	valid := func() *Claims {
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-7",
			Issuer:    "repairparts",
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
	}

	_, err := manager.ValidateAccessToken(sign(t, valid(), "test-secret"))
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(sign(t, valid(), "another-secret"))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = manager.ValidateAccessToken(sign(t, expired, "test-secret"))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	_, err = manager.ValidateAccessToken(sign(t, noExpiry, "test-secret"))
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)

	otherAudience := valid()
	otherAudience.Audience = jwt.ClaimStrings{"storefront-web"}
	_, err = manager.ValidateAccessToken(sign(t, otherAudience, "test-secret"))
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)

	otherIssuer := valid()
	otherIssuer.Issuer = "someone-else"
	_, err = manager.ValidateAccessToken(sign(t, otherIssuer, "test-secret"))
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	anonymous := valid()
	anonymous.Subject = ""
	_, err = manager.ValidateAccessToken(sign(t, anonymous, "test-secret"))
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer  abc "))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, ExtractTokenFromHeader("Bearer "))
	assert.Empty(t, ExtractTokenFromHeader("abc"))
}
