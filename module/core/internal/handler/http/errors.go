package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

// respondError maps the domain error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var stateErr *domain.StateError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOwnership):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
