package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"savora/internal/services"
)

// AuthMiddleware resolves the bearer token against the token store and
// sets the authenticated user on the context. It fails closed: a missing,
// malformed, or unresolvable token aborts with 401 before any handler runs.
func AuthMiddleware(tokens services.TokenServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		user, err := tokens.Resolve(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Next()
	}
}
