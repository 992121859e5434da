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

// PurchaseHandler exposes the purchase order lifecycle.
type PurchaseHandler struct {
	purchases *services.PurchaseService
}

func NewPurchaseHandler(purchases *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// CreateOrder creates a purchase order in DRAFT
func (h *PurchaseHandler) CreateOrder(c *gin.Context) {
	var req models.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	order, err := h.purchases.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.PurchaseOrderResponse{
		Success: true,
		Data:    order,
		Message: stringPtr("Purchase order created successfully"),
	})
}

// GetOrder retrieves a purchase order with its lines
func (h *PurchaseHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid purchase order ID")
		return
	}

	order, err := h.purchases.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PurchaseOrderResponse{Success: true, Data: order})
}

// ListOrders lists purchase orders with filters and pagination
func (h *PurchaseHandler) ListOrders(c *gin.Context) {
	var filter models.PurchaseOrderListFilter

	if v := c.Query("status"); v != "" {
		status := models.PurchaseOrderStatus(v)
		filter.Status = &status
	}
	if v := c.Query("supplierId"); v != "" {
		supplierID, err := uuid.Parse(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID")
			return
		}
		filter.SupplierID = &supplierID
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
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, total, err := h.purchases.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PurchaseOrderListResponse{
		Success:    true,
		Data:       orders,
		Pagination: paginationMeta(filter.Page, filter.Limit, total),
	})
}

// UpdateOrder patches an order; moving into RECEIVED or PARTIAL reconciles it
func (h *PurchaseHandler) UpdateOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid purchase order ID")
		return
	}

	var req models.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	order, err := h.purchases.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PurchaseOrderResponse{
		Success: true,
		Data:    order,
		Message: stringPtr("Purchase order updated successfully"),
	})
}

// RecordPayment records a payment against an order
func (h *PurchaseHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid purchase order ID")
		return
	}

	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	order, err := h.purchases.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PurchaseOrderResponse{
		Success: true,
		Data:    order,
		Message: stringPtr("Payment recorded successfully"),
	})
}

// DeleteOrder deletes an order that has not reconciled into stock
func (h *PurchaseHandler) DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid purchase order ID")
		return
	}

	if err := h.purchases.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Purchase order deleted"),
	})
}
