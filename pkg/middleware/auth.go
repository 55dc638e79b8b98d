package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"snipx-service/pkg/auth"
	"snipx-service/pkg/errno"
	"snipx-service/pkg/restapi"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextEmail  = "email"

	RoleAdmin = "admin"
)

// TokenParser is satisfied by *auth.TokenManager.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// JWTAuth requires a valid Bearer token and exposes its claims on the context.
func JWTAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			restapi.Failed(c, errno.ErrUnauthorized)
			return
		}
		claims, err := parser.Parse(strings.TrimSpace(raw))
		if err != nil {
			restapi.Failed(c, errno.NewBizError(errno.ErrTokenInvalid, err))
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != RoleAdmin {
			restapi.Failed(c, errno.ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or "" outside JWTAuth.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// IsAdmin reports whether the authenticated user carries the admin role.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == RoleAdmin
}
