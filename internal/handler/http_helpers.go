package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/service"
)

// pagination mirrors the JSON shape used across list endpoints.
type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// writeServiceError maps the engine's error taxonomy to HTTP status
// codes. The services themselves know nothing about HTTP.
func writeServiceError(c *gin.Context, err error) {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		permission *service.PermissionError
		conflict   *service.ConflictError
		state      *service.StateError
		partial    *service.PartialConversionError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validation.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
	case errors.As(err, &permission):
		c.JSON(http.StatusForbidden, gin.H{"message": permission.Message})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"message": conflict.Message})
	case errors.As(err, &state):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": state.Message})
	case errors.As(err, &partial):
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "conversion incomplete",
			"postId":  partial.PostID,
		})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || value == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return uint(value), true
}
