package user

import (
	"blog_api/internal/auth"
	"blog_api/internal/observability"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	userService UserServiceInterface
}

func NewUserController(userService UserServiceInterface) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Signup handles user registration.
func (u *UserController) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// Field presence is validated in the service, which deliberately only
	// rejects when all three fields are empty.
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	newUser, token, err := u.userService.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrMissingFields:
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case ErrEmailInUse:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("Signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}

	observability.GlobalMetrics.SignupsTotal.Inc()
	observability.GlobalMetrics.TokensIssuedTotal.WithLabelValues("signup").Inc()

	c.JSON(http.StatusOK, gin.H{
		"newUser": newUser,
		"token":   token,
	})
}

// Signin handles user login and returns a session token.
func (u *UserController) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	account, token, err := u.userService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrMissingFields, ErrNotRegistered, ErrPasswordMismatch:
			observability.GlobalMetrics.SigninsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("Signin failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		}
		return
	}

	observability.GlobalMetrics.SigninsTotal.WithLabelValues("accepted").Inc()
	observability.GlobalMetrics.TokensIssuedTotal.WithLabelValues("signin").Inc()

	// The password hash is stripped from the response via the model's JSON
	// tag; it has no business leaving the server.
	c.JSON(http.StatusOK, gin.H{
		"user":  account,
		"token": token,
	})
}

// List returns every registered user.
func (u *UserController) List(c *gin.Context) {
	users, err := u.userService.List(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetByID returns the name projection for a user. An unknown id yields a
// null user, not a 404.
func (u *UserController) GetByID(c *gin.Context) {
	projection, err := u.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logrus.WithError(err).Error("Failed to get user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": projection})
}

// UpdateSelf overwrites the authenticated user's record.
func (u *UserController) UpdateSelf(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	callerID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	updated, err := u.userService.UpdateSelf(c.Request.Context(), callerID, req.Name, req.Email, req.Password)
	if err != nil {
		if err == ErrMissingFields {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("Failed to update user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"newUser": updated})
}

// DeleteSelf removes the authenticated user's own record.
func (u *UserController) DeleteSelf(c *gin.Context) {
	callerID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	u.deleteByID(c, callerID)
}

// DeleteByID removes the user named in the request body. Mounted only in the
// admin-delete route configuration.
func (u *UserController) DeleteByID(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	u.deleteByID(c, req.UserID)
}

func (u *UserController) deleteByID(c *gin.Context, id string) {
	deleted, err := u.userService.DeleteByID(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"deleted": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
