package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

// ListCategories returns active categories in display order.
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.ListActive()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory returns a single active category by slug.
func (a *API) GetCategory(c *gin.Context) {
	category, err := a.categories.GetActiveBySlug(c.Param("slug"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory adds a category.
func (a *API) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category, err := a.categories.Create(service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.Order,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory applies a partial update.
func (a *API) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category, err := a.categories.Update(id, service.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.Order,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category.
func (a *API) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := a.categories.Delete(id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
