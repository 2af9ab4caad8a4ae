package service

import (
	"context"
	"testing"
	"time"

	"linkboard/backend/common"
	"linkboard/backend/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	common.JWTSecret = "test-jwt-secret-key-for-unit-tests"
	common.RedisEnabled = false
}

func TestGenerateToken(t *testing.T) {
	user := &model.User{ID: 1, Name: "testuser", Role: 1}

	token, err := GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestValidateToken_ValidToken(t *testing.T) {
	user := &model.User{ID: 42, Name: "alice", Role: 10}

	token, err := GenerateToken(user)
	assert.NoError(t, err)

	claims, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, 10, claims.Role)
	assert.Equal(t, "linkboard", claims.Issuer)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	claims, err := ValidateToken("invalid-token-string")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_TamperedToken(t *testing.T) {
	user := &model.User{ID: 1, Name: "testuser", Role: 1}

	token, err := GenerateToken(user)
	assert.NoError(t, err)

	// Tamper with the token
	claims, err := ValidateToken(token + "tampered")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	claims := JWTClaims{UserID: 1, Username: "mallory"}
	claims.Issuer = "linkboard"
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	assert.NoError(t, err)

	parsed, err := ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	claims := JWTClaims{UserID: 1, Username: "bob"}
	claims.Issuer = "one-mcp"
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(common.JWTSecret))
	assert.NoError(t, err)

	parsed, err := ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestValidateToken_Expired(t *testing.T) {
	claims := JWTClaims{UserID: 1, Username: "bob"}
	claims.Issuer = "linkboard"
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(common.JWTSecret))
	assert.NoError(t, err)

	parsed, err := ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestJWTClaims_Expiration(t *testing.T) {
	user := &model.User{ID: 1, Name: "testuser", Role: 1}

	token, err := GenerateToken(user)
	assert.NoError(t, err)

	claims, err := ValidateToken(token)
	assert.NoError(t, err)

	// Check that expiration is in the future (7 days from now)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
	assert.True(t, claims.ExpiresAt.Before(time.Now().Add(8*24*time.Hour)))
}

func TestRevocationWithoutRedis(t *testing.T) {
	token, err := GenerateToken(&model.User{ID: 1, Name: "testuser"})
	assert.NoError(t, err)

	revoked, err := IsTokenRevoked(context.Background(), token)
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.Error(t, RevokeToken(context.Background(), token))
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	originalConn := common.RedisConnString
	common.RedisConnString = "redis://" + mr.Addr()
	require.NoError(t, common.InitRedisClient())
	t.Cleanup(func() {
		_ = common.CloseRedisClient()
		common.RDB = nil
		common.RedisEnabled = false
		common.RedisConnString = originalConn
	})
	return mr
}

func TestRevokeTokenWithRedis(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	token, err := GenerateToken(&model.User{ID: 9, Name: "carol"})
	require.NoError(t, err)

	revoked, err := IsTokenRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, token))

	revoked, err = IsTokenRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	key := common.JWTBlacklistPrefix + token
	stored, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "9", stored)

	ttl := mr.TTL(key)
	assert.Greater(t, ttl, common.AccessTokenTTL-time.Minute)
	assert.LessOrEqual(t, ttl, common.AccessTokenTTL)

	// the entry goes away once the token would have expired anyway
	mr.FastForward(common.AccessTokenTTL + time.Second)
	revoked, err = IsTokenRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeTokenRejectsInvalidToken(t *testing.T) {
	mr := setupRedis(t)

	assert.Error(t, RevokeToken(context.Background(), "not-a-token"))
	assert.Empty(t, mr.Keys())
}
