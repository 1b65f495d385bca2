package handlers

import (
	"errors"
	"log"
	"net/http"

	"ferry-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// RespondDomainError translates a domain error into the HTTP status and
// body the API promises. Internal details never leak to the client; they
// go to the server log with the request id.
func RespondDomainError(c *gin.Context, requestID string, err error) {
	var capErr domain.CapacityError
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &capErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     capErr.Error(),
			"pool":      string(capErr.Pool),
			"requested": capErr.Requested,
			"available": capErr.Available,
		})
	case domain.IsSequencing(err), domain.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case domain.IsConfiguration(err):
		log.Printf("[ERROR] request_id=%s configuration: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		log.Printf("[ERROR] request_id=%s %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
