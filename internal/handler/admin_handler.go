package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type memberStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// Dashboard 汇总后台首页需要的统计数据与最近动态。
func (a *API) Dashboard(c *gin.Context) {
	totalPosts, err := a.posts.CountByStatus("")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	publishedPosts, err := a.posts.CountByStatus(db.PostStatusPublished)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	draftPosts, err := a.posts.CountByStatus(db.PostStatusDraft)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	memberStats, err := a.community.Stats()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	commentStats, err := a.comments.Stats()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	pendingSubmissions, err := a.submissions.CountPending()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	recentPosts, err := a.posts.Recent(5)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	recentMembers, err := a.community.Recent(5)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"totalPosts":         totalPosts,
			"publishedPosts":     publishedPosts,
			"draftPosts":         draftPosts,
			"totalMembers":       memberStats.TotalMembers,
			"pendingComments":    commentStats.Pending,
			"pendingSubmissions": pendingSubmissions,
		},
		"recentActivity": gin.H{
			"recentPosts":   recentPosts,
			"recentMembers": recentMembers,
		},
	})
}

// ListMembers provides the community roster with search.
func (a *API) ListMembers(c *gin.Context) {
	filter := service.MemberFilter{
		Search:  c.Query("search"),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("limit", "20"), 20),
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	result, err := a.community.List(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": result.Members,
		"pagination": pagination{
			Page:  result.Page,
			Limit: result.PerPage,
			Total: result.Total,
			Pages: result.TotalPages,
		},
	})
}

// UpdateMemberStatus toggles a member's active flag.
func (a *API) UpdateMemberStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req memberStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "isActive must be a boolean"})
		return
	}

	member, err := a.community.SetActive(id, *req.IsActive)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member status updated", "member": member})
}

// ListAdminUsers returns admin and super admin accounts.
func (a *API) ListAdminUsers(c *gin.Context) {
	users, err := a.users.ListAdmins()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListAuthors returns authors with their post counters.
func (a *API) ListAuthors(c *gin.Context) {
	filter := service.AuthorFilter{
		Search:  c.Query("search"),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("limit", "20"), 20),
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	result, err := a.users.ListAuthors(filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	authors := make([]gin.H, 0, len(result.Authors))
	for _, entry := range result.Authors {
		authors = append(authors, gin.H{
			"id":        entry.User.ID,
			"name":      entry.User.Name,
			"email":     entry.User.Email,
			"isActive":  entry.User.IsActive,
			"createdAt": entry.User.CreatedAt,
			"stats": gin.H{
				"totalPosts":     entry.TotalPosts,
				"publishedPosts": entry.PublishedPosts,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"authors": authors,
		"pagination": pagination{
			Page:  result.Page,
			Limit: result.PerPage,
			Total: result.Total,
			Pages: result.TotalPages,
		},
	})
}

// AdminListPosts lists posts across all statuses and authors.
func (a *API) AdminListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Status:  c.Query("status"),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("limit", "20"), 20),
	}
	if raw := c.Query("author"); raw != "" {
		filter.AuthorID = uint(parsePositiveInt(raw, 0))
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

// CreateUser adds an author or admin account.
func (a *API) CreateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := a.users.Create(actor, service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// DeactivateUser disables an account.
func (a *API) DeactivateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.users.Deactivate(id, actor); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}

// DeleteUser removes an account.
func (a *API) DeleteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.users.Delete(id, actor); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
