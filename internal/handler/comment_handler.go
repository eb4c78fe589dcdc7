package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type submitCommentRequest struct {
	Post        uint   `json:"post" binding:"required"`
	AuthorName  string `json:"authorName" binding:"required"`
	AuthorEmail string `json:"authorEmail"`
	Content     string `json:"content" binding:"required"`
	Parent      *uint  `json:"parentComment"`
}

type moderateCommentRequest struct {
	IsApproved *bool `json:"isApproved" binding:"required"`
}

// SubmitComment accepts a public comment; registered users are linked
// when authenticated.
func (a *API) SubmitComment(c *gin.Context) {
	var req submitCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	input := service.CommentInput{
		PostID:      req.Post,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
		ParentID:    req.Parent,
	}
	if user, ok := currentUser(c); ok {
		input.UserID = &user.ID
	}

	echo, err := a.comments.Submit(input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment submitted for review",
		"comment": echo,
	})
}

// ListPostComments returns the approved comment threads of a post.
func (a *API) ListPostComments(c *gin.Context) {
	id, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	comments, err := a.comments.ListPublic(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ListComments provides the moderation queue with filters.
func (a *API) ListComments(c *gin.Context) {
	filter := service.CommentFilter{
		Status:  c.Query("status"),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("limit", "20"), 20),
	}
	if raw := c.Query("post"); raw != "" {
		filter.PostID = uint(parsePositiveInt(raw, 0))
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	result, err := a.comments.List(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": result.Comments,
		"pagination": pagination{
			Page:  result.Page,
			Limit: result.PerPage,
			Total: result.Total,
			Pages: result.TotalPages,
		},
	})
}

// PendingComments lists unapproved comments, newest first.
func (a *API) PendingComments(c *gin.Context) {
	filter := service.CommentFilter{
		Status:  "pending",
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("limit", "20"), 20),
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	result, err := a.comments.List(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": result.Comments,
		"pagination": pagination{
			Page:  result.Page,
			Limit: result.PerPage,
			Total: result.Total,
			Pages: result.TotalPages,
		},
	})
}

// ModerateComment approves or rejects a comment.
func (a *API) ModerateComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req moderateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsApproved == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "isApproved must be a boolean"})
		return
	}

	comment, err := a.comments.Moderate(id, *req.IsApproved)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	message := "Comment rejected"
	if comment.IsApproved {
		message = "Comment approved"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "comment": comment})
}

// DeleteComment removes a comment and its direct replies.
func (a *API) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.comments.Remove(id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// CommentStats reports moderation counters.
func (a *API) CommentStats(c *gin.Context) {
	stats, err := a.comments.Stats()
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalComments":     stats.Total,
		"approvedComments":  stats.Approved,
		"pendingComments":   stats.Pending,
		"commentsThisMonth": stats.ThisMonth,
	})
}
