package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

type createPostRequest struct {
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description"`
	Content        string           `json:"content" binding:"required"`
	Excerpt        string           `json:"excerpt"`
	Category       uint             `json:"category" binding:"required"`
	Tags           []string         `json:"tags"`
	Status         string           `json:"status"`
	FeaturedImage  string           `json:"featuredImage"`
	ImageURL       string           `json:"imageUrl"`
	IsDownloadable bool             `json:"isDownloadable"`
	FontSettings   *db.FontSettings `json:"fontSettings"`
}

type updatePostRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Content        *string          `json:"content"`
	Excerpt        *string          `json:"excerpt"`
	Category       *uint            `json:"category"`
	Tags           *[]string        `json:"tags"`
	Status         *string          `json:"status"`
	FeaturedImage  *string          `json:"featuredImage"`
	ImageURL       *string          `json:"imageUrl"`
	IsDownloadable *bool            `json:"isDownloadable"`
	FontSettings   *db.FontSettings `json:"fontSettings"`
}

// ListPosts returns published posts for public consumption.
func (a *API) ListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Status:       db.PostStatusPublished,
		CategorySlug: c.Query("category"),
		Page:         parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:      parsePositiveInt(c.DefaultQuery("limit", "10"), 10),
	}
	if filter.PerPage > 50 {
		filter.PerPage = 50
	}

	result, err := a.posts.List(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": result.Posts,
		"pagination": pagination{
			Page:  result.Page,
			Limit: result.PerPage,
			Total: result.Total,
			Pages: result.TotalPages,
		},
	})
}

// MyPosts returns the acting author's own posts, drafts included.
func (a *API) MyPosts(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	posts, err := a.posts.ListByAuthor(actor.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single published post by slug.
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost creates a post owned by the acting author.
func (a *API) CreatePost(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	post, err := a.posts.Create(actor, service.PostInput{
		Title:          req.Title,
		Description:    req.Description,
		Content:        req.Content,
		Excerpt:        req.Excerpt,
		CategoryID:     req.Category,
		Tags:           req.Tags,
		Status:         req.Status,
		FeaturedImage:  req.FeaturedImage,
		ImageURL:       req.ImageURL,
		IsDownloadable: req.IsDownloadable,
		FontSettings:   req.FontSettings,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost applies a partial update under the ownership rules.
func (a *API) UpdatePost(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	post, err := a.posts.Update(id, actor, service.PostPatch{
		Title:          req.Title,
		Description:    req.Description,
		Content:        req.Content,
		Excerpt:        req.Excerpt,
		CategoryID:     req.Category,
		Tags:           req.Tags,
		Status:         req.Status,
		FeaturedImage:  req.FeaturedImage,
		ImageURL:       req.ImageURL,
		IsDownloadable: req.IsDownloadable,
		FontSettings:   req.FontSettings,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost removes a post and its comments.
func (a *API) DeletePost(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.posts.Delete(id, actor); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// DownloadPost streams the packaged document for a downloadable post.
func (a *API) DownloadPost(c *gin.Context) {
	result, err := a.exports.Export(c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
