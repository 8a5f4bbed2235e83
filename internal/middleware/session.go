package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/utils"
)

const professionalIDKey = "professionalID"

// SessionMiddleware reads an optional professional session token. Requests
// without an Authorization header pass through untouched; a malformed or
// invalid token is rejected.
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		c.Set(professionalIDKey, claims.ProfessionalID)
		c.Next()
	}
}

// GetProfessionalIDFromContext returns the professional of the current session, if any.
func GetProfessionalIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(professionalIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
