package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/services"
)

// MovementHandler exposes the stock ledger: posting, reversal and queries.
type MovementHandler struct {
	ledger *services.LedgerService
}

func NewMovementHandler(ledger *services.LedgerService) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

// PostMovement appends a stock movement
func (h *MovementHandler) PostMovement(c *gin.Context) {
	var req models.PostMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	movement, err := h.ledger.PostMovement(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.MovementResponse{
		Success: true,
		Data:    movement,
		Message: stringPtr("Stock movement posted successfully"),
	})
}

// GetMovement retrieves a ledger entry by ID
func (h *MovementHandler) GetMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid movement ID")
		return
	}

	movement, err := h.ledger.GetMovement(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MovementResponse{Success: true, Data: movement})
}

// ListMovements queries the ledger, newest first
func (h *MovementHandler) ListMovements(c *gin.Context) {
	var filter models.MovementListFilter

	if v := c.Query("type"); v != "" {
		movementType := models.MovementType(v)
		if !models.ValidMovementType(movementType) {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown movement type")
			return
		}
		filter.Type = &movementType
	}
	if v := c.Query("inventoryItemId"); v != "" {
		itemID, err := uuid.Parse(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid inventory item ID")
			return
		}
		filter.InventoryItemID = &itemID
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be RFC3339")
			return
		}
		filter.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be RFC3339")
			return
		}
		filter.To = &to
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	movements, err := h.ledger.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MovementListResponse{Success: true, Data: movements})
}

// ReverseMovement posts a compensating movement for a prior entry
func (h *MovementHandler) ReverseMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid movement ID")
		return
	}

	var req models.ReverseMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	reversal, err := h.ledger.ReverseMovement(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.MovementResponse{
		Success: true,
		Data:    reversal,
		Message: stringPtr("Movement reversed successfully"),
	})
}
