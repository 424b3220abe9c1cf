package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qr-restaurant/models"
)

// respondError maps service errors onto HTTP statuses: validation and
// transition problems are 400, missing entities 404, exhausted order
// numbers 503, anything else 500.
func respondError(c *gin.Context, err error) {
	var transitionErr *models.InvalidTransitionError

	switch {
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: transitionErr.Error(),
		})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: err.Error(),
		})
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrTableNotFound),
		errors.Is(err, models.ErrMenuItemNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrUserNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: err.Error(),
		})
	case errors.Is(err, models.ErrNumbersExhausted),
		errors.Is(err, models.ErrAllocationRetries):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Message: "Unable to create order right now, please try again",
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Internal server error",
			Error:   err.Error(),
		})
	}
}
