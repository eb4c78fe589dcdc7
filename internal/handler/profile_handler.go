package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
)

type updateProfileRequest struct {
	Name         *string `json:"name"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profileImage"`
}

// PublicProfile returns an author's public page: profile, latest
// published posts and aggregate stats.
func (a *API) PublicProfile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := a.users.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	result, err := a.posts.List(service.PostFilter{
		Status:   db.PostStatusPublished,
		AuthorID: user.ID,
		Page:     1,
		PerPage:  10,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	stats, err := a.posts.StatsForAuthor(user.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"bio":          user.Bio,
			"profileImage": user.ProfileImage,
			"createdAt":    user.CreatedAt,
		},
		"posts": result.Posts,
		"stats": gin.H{
			"totalPosts":     stats.PublishedPosts,
			"totalDownloads": stats.TotalDownloads,
		},
	})
}

// MyProfile returns the authenticated account.
func (a *API) MyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"bio":          user.Bio,
			"profileImage": user.ProfileImage,
			"role":         user.Role,
			"createdAt":    user.CreatedAt,
		},
	})
}

// UpdateMyProfile applies profile changes to the caller's account.
func (a *API) UpdateMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. Not authenticated."})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	updated, err := a.users.UpdateProfile(user.ID, service.ProfilePatch{
		Name:         req.Name,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"id":           updated.ID,
			"name":         updated.Name,
			"email":        updated.Email,
			"bio":          updated.Bio,
			"profileImage": updated.ProfileImage,
		},
	})
}
