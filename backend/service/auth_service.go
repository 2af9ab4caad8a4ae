package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkboard/backend/common"
	"linkboard/backend/model"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "linkboard"

// JWTClaims is the payload of an access token.
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     int    `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a new access token for user.
func GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:   user.ID,
		Username: user.Name,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(common.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.Name,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(common.JWTSecret))
}

// ValidateToken parses tokenString and returns its claims if the signature and
// the registered claims are valid.
func ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(common.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// IsTokenRevoked reports whether tokenString is on the revocation list.
// Without redis nothing can be revoked.
func IsTokenRevoked(ctx context.Context, tokenString string) (bool, error) {
	if !common.RedisEnabled {
		return false, nil
	}
	n, err := common.RDB.Exists(ctx, common.JWTBlacklistPrefix+tokenString).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeToken blacklists tokenString until it would have expired anyway.
func RevokeToken(ctx context.Context, tokenString string) error {
	if !common.RedisEnabled {
		return errors.New("token revocation requires REDIS_CONN_STRING")
	}
	claims, err := ValidateToken(tokenString)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return common.RDB.Set(ctx, common.JWTBlacklistPrefix+tokenString, claims.UserID, ttl).Err()
}
