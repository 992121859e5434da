package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inventory-ledger-service/internal/events"
)

// HealthHandler reports liveness and readiness.
type HealthHandler struct {
	db        *gorm.DB
	publisher *events.Publisher
}

func NewHealthHandler(db *gorm.DB, publisher *events.Publisher) *HealthHandler {
	return &HealthHandler{db: db, publisher: publisher}
}

// HealthCheck returns service health status (basic)
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "inventory-ledger-service",
	})
}

// ReadyCheck verifies the database connection and reports event bus state.
// The event bus is optional; being disconnected degrades but does not fail.
func (h *HealthHandler) ReadyCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := gin.H{
		"status":  "ready",
		"service": "inventory-ledger-service",
		"checks":  gin.H{},
	}
	checks := health["checks"].(gin.H)
	status := http.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		checks["database"] = gin.H{"status": "unhealthy", "error": err.Error()}
		health["status"] = "unavailable"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = gin.H{"status": "healthy"}
	}

	if h.publisher.IsConnected() {
		checks["events"] = gin.H{"status": "connected"}
	} else {
		checks["events"] = gin.H{"status": "disconnected"}
		if status == http.StatusOK {
			health["status"] = "degraded"
		}
	}

	c.JSON(status, health)
}
