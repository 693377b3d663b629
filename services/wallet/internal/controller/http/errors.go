package http

import (
	"errors"
	"net/http"
	"strconv"

	"readverse/pkg/logger"
	"readverse/services/wallet/internal/entity"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto the JSON error bodies clients expect.
func writeError(c *gin.Context, log *logger.Logger, err error) {
	var insufficient *entity.InsufficientFundsError
	var processed *entity.AlreadyProcessedError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient_funds", "balance": insufficient.Balance})
	case errors.As(err, &processed):
		c.JSON(http.StatusConflict, gin.H{"error": "already_processed", "status": processed.Status})
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, entity.ErrUpgradeFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upgrade_failed"})
	case errors.Is(err, entity.ErrAlreadyEntitled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrStoryHasNoAuthor),
		errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrSelfDonation),
		errors.Is(err, entity.ErrPriceMismatch),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}
