package jwt_test

import (
	"lockngo/config"
	"lockngo/infras/jwt"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "lockngo"
	cfg.JWT.AccessSecret = "access"
	cfg.JWT.RefreshSecret = "refresh"
	cfg.JWT.AccessExpireMin = 5
	cfg.JWT.RefreshExpireMin = 60

	return cfg
}

func TestGenerateAndValidate(t *testing.T) {
	svc := jwt.New(newConfig())

	pair, err := svc.GenerateTokenPair("u1", "alice@example.com", "user")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(300), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.TokenID)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken(pair.RefreshToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	svc := jwt.New(newConfig())

	_, err := svc.ValidateToken("not-a-token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	cfg := newConfig()
	cfg.JWT.AccessExpireMin = -1

	svc := jwt.New(cfg)

	pair, err := svc.GenerateTokenPair("u1", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestRefreshTokens(t *testing.T) {
	svc := jwt.New(newConfig())

	pair, err := svc.GenerateTokenPair("a1", "budi@example.com", "agent")
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.UserID)
	assert.Equal(t, "agent", claims.Role)

	_, err = svc.RefreshTokens(pair.AccessToken)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Bearer ")
	assert.Error(t, err)
}

func TestGenerateTokenPair_UnknownRole(t *testing.T) {
	svc := jwt.New(newConfig())

	_, err := svc.GenerateTokenPair("x1", "x@example.com", "courier")
	assert.ErrorIs(t, err, jwt.ErrUnknownRole)
}

func forge(t *testing.T, issuer, role string) string {
	t.Helper()

	now := time.Now()
	claims := jwt.Claims{
		UserID:  "u1",
		Role:    role,
		TokenID: "t1",
		Type:    jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("access"))
	require.NoError(t, err)

	return signed
}

func TestValidate_RejectsForeignClaims(t *testing.T) {
	svc := jwt.New(newConfig())

	claims, err := svc.ValidateToken(forge(t, "lockngo", "agent"), jwt.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAgent())
	assert.False(t, claims.IsAdmin())

	_, err = svc.ValidateToken(forge(t, "lockngo", "courier"), jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)

	_, err = svc.ValidateToken(forge(t, "someone-else", "agent"), jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestKnownRole(t *testing.T) {
	for _, role := range []string{"user", "agent", "admin"} {
		assert.True(t, jwt.KnownRole(role), role)
	}

	assert.False(t, jwt.KnownRole(""))
	assert.False(t, jwt.KnownRole("Admin"))
}
