package delivery

import (
	"errors"
	"net/http"

	"alertfi-backend/internal/detector/domain"

	"github.com/gin-gonic/gin"
)

// WriteError maps detector domain errors to a JSON response of the form
// {"error": "<Kind>", "message": "..."}
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": err.Error()})
	case errors.Is(err, domain.ErrDetectorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "DetectorNotFound", "message": err.Error()})
	case errors.Is(err, domain.ErrReadingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ReadingNotFound", "message": err.Error()})
	case errors.Is(err, domain.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PersistenceFailure", "message": "failed to access storage"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "InternalError", "message": err.Error()})
	}
}
