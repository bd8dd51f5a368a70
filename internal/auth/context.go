package auth

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

const UserIDKey = "userID"

// GetUserIDFromContext extracts the authenticated user's id from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type")
	}

	return id, nil
}
