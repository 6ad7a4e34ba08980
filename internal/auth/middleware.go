package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by RequireToken. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// RequireToken returns a middleware that verifies the bearer token from the
// Authorization header and sets the current user ID in context. If missing
// or invalid, responds with 401 and aborts.
func RequireToken(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access denied. No token provided."})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access denied. No token provided."})
			return
		}
		userID, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
