package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cpaas-portal/internal/auth"
)

const (
	ContextKeyUserID    = "user_id"
	ContextKeyCompanyID = "company_id"
	ContextKeyEmail     = "email"
	ContextKeyRole      = "role"
)

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": msg,
	})
}

// AuthMiddleware accepts a session token from the Authorization header, or
// from the token query parameter where browsers cannot set headers (websocket).
func AuthMiddleware(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(c, "invalid authorization format, expected: Bearer <token>")
				return
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		claims, err := issuer.Parse(tokenString, auth.PurposeSession)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyCompanyID, claims.CompanyID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

func getString(c *gin.Context, key string) string {
	val, exists := c.Get(key)
	if !exists {
		return ""
	}
	s, ok := val.(string)
	if !ok {
		return ""
	}
	return s
}

func GetUserID(c *gin.Context) string    { return getString(c, ContextKeyUserID) }
func GetCompanyID(c *gin.Context) string { return getString(c, ContextKeyCompanyID) }
func GetEmail(c *gin.Context) string     { return getString(c, ContextKeyEmail) }
func GetRole(c *gin.Context) string      { return getString(c, ContextKeyRole) }
