package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type joinCommunityRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// JoinCommunity registers a reader and sends the welcome mail.
func (a *API) JoinCommunity(c *gin.Context) {
	var req joinCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	member, err := a.community.Join(req.Name, req.Email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Successfully joined the community!",
		"member": gin.H{
			"id":       member.ID,
			"name":     member.Name,
			"email":    member.Email,
			"joinedAt": member.JoinedAt,
		},
	})
}

// CommunityStats reports membership and moderation counters.
func (a *API) CommunityStats(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"totalMembers":        memberStats.TotalMembers,
		"newMembersThisMonth": memberStats.NewMembersThisMonth,
		"pendingComments":     commentStats.Pending,
		"totalComments":       commentStats.Approved,
	})
}
