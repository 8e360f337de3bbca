package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salesdash/api/logger"
	"salesdash/api/utils"
)

// AuthRequired accepts the X-API-KEY default key, a jwt_token cookie, or a
// Bearer token.
func AuthRequired(defaultKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if defaultKey != "" && c.GetHeader("X-API-KEY") == defaultKey {
			c.Next()
			return
		}
		tokenString, err := c.Cookie("jwt_token")
		if err != nil || tokenString == "" {
			tokenString = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			if tokenString == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
				return
			}
		}
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			logger.Debug("Rejected JWT", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
