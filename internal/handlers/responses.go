package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/services"
)

func stringPtr(s string) *string {
	return &s
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

// respondServiceError maps domain errors onto the wire taxonomy.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrSupplierNotFound),
		errors.Is(err, services.ErrMovementNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		respondError(c, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, services.ErrOrderReconciled),
		errors.Is(err, services.ErrReversalOfReversal):
		respondError(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidMovementType),
		errors.Is(err, services.ErrInvalidThresholds),
		errors.Is(err, services.ErrStockFieldsLocked),
		errors.Is(err, services.ErrPaymentExceedsTotal):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

func paginationMeta(page, limit int, total int64) *models.PaginationMeta {
	if page <= 0 || limit <= 0 {
		return nil
	}
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
