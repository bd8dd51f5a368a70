package post

import (
	"blog_api/internal/auth"
	"blog_api/internal/observability"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PostController struct {
	service PostServiceInterface
}

func NewPostController(service PostServiceInterface) *PostController {
	return &PostController{
		service: service,
	}
}

// ListAll returns every post's public summary. No auth required.
func (p *PostController) ListAll(c *gin.Context) {
	posts, err := p.service.ListAll(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": posts})
}

// GetByID returns the full post. No auth required.
func (p *PostController) GetByID(c *gin.Context) {
	found, err := p.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("Failed to get post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": found})
}

// Create makes the authenticated caller the owner of a new post.
func (p *PostController) Create(c *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
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

	newPost, err := p.service.Create(c.Request.Context(), callerID, req.Title, req.Content)
	if err != nil {
		if err == ErrMissingFields {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("Failed to create post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	observability.GlobalMetrics.PostMutationsTotal.WithLabelValues("create", "ok").Inc()

	c.JSON(http.StatusOK, gin.H{"newPost": newPost})
}

// Update mutates a post the caller owns. A miss on the compound id+owner
// match comes back as {updated:false}, never as an authorization error.
func (p *PostController) Update(c *gin.Context) {
	var req struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
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

	updated, record, err := p.service.Update(c.Request.Context(), callerID, req.ID, req.Title, req.Content)
	if err != nil {
		if err == ErrMissingFields {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("Failed to update post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	if !updated {
		observability.GlobalMetrics.PostMutationsTotal.WithLabelValues("update", "miss").Inc()
		c.JSON(http.StatusNotFound, gin.H{"updated": false})
		return
	}

	observability.GlobalMetrics.PostMutationsTotal.WithLabelValues("update", "ok").Inc()

	c.JSON(http.StatusOK, gin.H{
		"updated":    true,
		"updatePost": record,
	})
}

// Delete removes a post the caller owns. Same scoped-match semantics as
// Update.
func (p *PostController) Delete(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
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

	deleted, err := p.service.Delete(c.Request.Context(), callerID, req.ID)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	if !deleted {
		observability.GlobalMetrics.PostMutationsTotal.WithLabelValues("delete", "miss").Inc()
		c.JSON(http.StatusNotFound, gin.H{"deleted": false})
		return
	}

	observability.GlobalMetrics.PostMutationsTotal.WithLabelValues("delete", "ok").Inc()

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
