package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/services"
)

// CatalogHandler exposes item and supplier CRUD.
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ========== Item Handlers ==========

// CreateItem creates a catalog item
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.catalog.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ItemResponse{
		Success: true,
		Data:    item,
		Message: stringPtr("Inventory item created successfully"),
	})
}

// GetItem retrieves an item by ID
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID")
		return
	}

	item, err := h.catalog.GetItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ItemResponse{Success: true, Data: item})
}

// ListItems lists catalog items with filters and pagination
func (h *CatalogHandler) ListItems(c *gin.Context) {
	filter := models.ItemListFilter{
		Search: c.Query("search"),
	}
	if v := c.Query("category"); v != "" {
		category := models.ItemCategory(v)
		filter.Category = &category
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	filter.LowStock = c.Query("lowStock") == "true"
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, total, err := h.catalog.ListItems(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ItemListResponse{
		Success:    true,
		Data:       items,
		Pagination: paginationMeta(filter.Page, filter.Limit, total),
	})
}

// UpdateItem patches an item
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID")
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.catalog.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ItemResponse{
		Success: true,
		Data:    item,
		Message: stringPtr("Inventory item updated successfully"),
	})
}

// DeleteItem deactivates an item; ledger history keeps the record
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID")
		return
	}

	if err := h.catalog.DeleteItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Inventory item deactivated"),
	})
}

// ========== Supplier Handlers ==========

// CreateSupplier creates a supplier
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req models.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	supplier, err := h.catalog.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SupplierResponse{
		Success: true,
		Data:    supplier,
		Message: stringPtr("Supplier created successfully"),
	})
}

// GetSupplier retrieves a supplier by ID
func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID")
		return
	}

	supplier, err := h.catalog.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SupplierResponse{Success: true, Data: supplier})
}

// ListSuppliers lists suppliers with filters and pagination
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	filter := models.SupplierListFilter{
		Search: c.Query("search"),
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	suppliers, total, err := h.catalog.ListSuppliers(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SupplierListResponse{
		Success:    true,
		Data:       suppliers,
		Pagination: paginationMeta(filter.Page, filter.Limit, total),
	})
}

// UpdateSupplier patches a supplier
func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID")
		return
	}

	var req models.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	supplier, err := h.catalog.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SupplierResponse{
		Success: true,
		Data:    supplier,
		Message: stringPtr("Supplier updated successfully"),
	})
}

// DeleteSupplier deactivates a supplier
func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID")
		return
	}

	if err := h.catalog.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Supplier deactivated"),
	})
}
