package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Be1newinner/ship-chatbot/internal/auth"
	"github.com/Be1newinner/ship-chatbot/internal/common"
	"github.com/Be1newinner/ship-chatbot/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "auth.user_id"
	RoleKey   = "auth.role"
)

// AuthRequired verifies the bearer token and stores the principal
// (user id + role) on the request context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			common.Fail(c, http.StatusUnauthorized, 40101, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := auth.ParseJWT(strings.TrimPrefix(header, prefix), secret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				common.Fail(c, http.StatusUnauthorized, 40102, "token expired")
			} else {
				common.Fail(c, http.StatusUnauthorized, 40101, "invalid token")
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// AdminRequired gates admin-only routes. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(RoleKey)
		if !ok || role != models.RoleAdmin {
			common.Fail(c, http.StatusForbidden, 40300, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
