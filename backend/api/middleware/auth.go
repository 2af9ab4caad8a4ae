package middleware

import (
	"net/http"
	"strings"

	"linkboard/backend/common"
	lberrors "linkboard/backend/common/errors"
	"linkboard/backend/common/i18n"
	"linkboard/backend/service"

	"github.com/gin-gonic/gin"
)

func abortUnauthorized(c *gin.Context, code string) {
	lang := common.LangFromContext(c.Request.Context())
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"code":    code,
		"message": i18n.Translate(code, lang),
	})
	c.Abort()
}

// authenticate validates the bearer token in the Authorization header and
// stores the caller in both the gin context and the request context. It
// returns false after aborting the request.
func authenticate(c *gin.Context, authHeader string) bool {
	// Check if it's a Bearer token
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		abortUnauthorized(c, lberrors.ErrAuthHeaderFormat)
		return false
	}

	tokenString := parts[1]
	claims, err := service.ValidateToken(tokenString)
	if err != nil {
		abortUnauthorized(c, lberrors.ErrTokenInvalid)
		return false
	}

	revoked, err := service.IsTokenRevoked(c.Request.Context(), tokenString)
	if err != nil {
		common.SysError("failed to check token revocation: " + err.Error())
	}
	if revoked {
		abortUnauthorized(c, lberrors.ErrTokenRevoked)
		return false
	}

	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("role", claims.Role)
	c.Request = c.Request.WithContext(common.WithUserID(c.Request.Context(), claims.UserID))
	return true
}

// JWTAuth is a middleware that validates JWT tokens
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, lberrors.ErrAuthHeaderRequired)
			return
		}
		if authenticate(c, authHeader) {
			c.Next()
		}
	}
}

// OptionalJWTAuth lets anonymous requests through; a request that does send
// a token must send a valid one.
func OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if authenticate(c, authHeader) {
			c.Next()
		}
	}
}
