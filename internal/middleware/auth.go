package middleware

import (
	"blog_api/internal/auth"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAuth validates the bearer token and puts the resolved user id in
// the request context. The same gate protects both the post and user route
// groups.
//
// A missing header, a header that does not split into exactly two parts, or
// a scheme other than the literal "Bearer" all reject with 401 and an empty
// body. A token that fails verification rejects with 401 and the
// verification error.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if parts[0] != "Bearer" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(auth.UserIDKey, userID)
		c.Next()
	}
}
