package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/skyfare/internal/domain"
)

// writeError maps domain errors onto status codes and a reason string. Every
// rejected call carries a specific reason; insufficient-funds responses add a
// machine-readable code the frontend keys on.
func writeError(c *gin.Context, err error) {
	var insufficient *domain.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{"error": insufficient.Error(), "code": "INSUFFICIENT_BALANCE"})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateBooking):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
