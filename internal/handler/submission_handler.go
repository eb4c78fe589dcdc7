package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type submitStoryRequest struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content" binding:"required"`
	AuthorName  string `json:"authorName" binding:"required"`
	AuthorEmail string `json:"authorEmail" binding:"required"`
	Category    string `json:"category" binding:"required"`
}

type reviewSubmissionRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type convertSubmissionRequest struct {
	CategoryID     uint     `json:"categoryId" binding:"required"`
	Tags           []string `json:"tags"`
	IsDownloadable bool     `json:"isDownloadable"`
}

// SubmitStory accepts a public reader submission.
func (a *API) SubmitStory(c *gin.Context) {
	var req submitStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	submission, err := a.submissions.Submit(service.SubmissionInput{
		Title:       req.Title,
		Content:     req.Content,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Submission received successfully! We will review it and get back to you.",
		"submission": gin.H{
			"id":          submission.ID,
			"title":       submission.Title,
			"authorName":  submission.AuthorName,
			"category":    submission.Category,
			"submittedAt": submission.SubmittedAt,
		},
	})
}

// ListSubmissions provides the editorial review queue.
func (a *API) ListSubmissions(c *gin.Context) {
	filter := service.SubmissionFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Page:     parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:  parsePositiveInt(c.DefaultQuery("limit", "20"), 20),
	}
	if filter.PerPage > 50 {
		filter.PerPage = 50
	}

	result, err := a.submissions.List(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": result.Submissions,
		"pagination": pagination{
			Page:  result.Page,
			Limit: result.PerPage,
			Total: result.Total,
			Pages: result.TotalPages,
		},
	})
}

// GetSubmission returns a single submission for review.
func (a *API) GetSubmission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	submission, err := a.submissions.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// ReviewSubmission records an approve/reject decision.
func (a *API) ReviewSubmission(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status must be approved or rejected"})
		return
	}

	submission, err := a.submissions.Review(id, actor, req.Status, req.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Submission " + submission.Status,
		"submission": submission,
	})
}

// ConvertSubmission turns an approved submission into a draft post.
func (a *API) ConvertSubmission(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req convertSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	post, err := a.submissions.ConvertToPost(id, actor, service.ConvertInput{
		CategoryID:     req.CategoryID,
		Tags:           req.Tags,
		IsDownloadable: req.IsDownloadable,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Submission converted to post successfully",
		"post":    post,
	})
}
