// Package events publishes inventory lifecycle events to NATS JetStream.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"inventory-ledger-service/internal/models"
)

const (
	streamName = "INVENTORY"

	SubjectMovementPosted = "inventory.movement.posted"
	SubjectStockLow       = "inventory.stock.low"
	SubjectStockOut       = "inventory.stock.out"
	SubjectOrderReceived  = "inventory.purchase.received"
)

// Publisher publishes events to NATS JetStream. A nil Publisher is valid and
// drops every event, so callers never need to nil-check before publishing.
type Publisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the inventory stream exists.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("inventory-ledger-publisher"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	entry := log.WithField("component", "events")

	if _, err := js.StreamInfo(streamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{"inventory.>"},
			Storage:  nats.FileStorage,
		})
		if err != nil {
			entry.WithError(err).Warn("Failed to ensure inventory stream exists")
		}
	}

	return &Publisher{nc: nc, js: js, logger: entry}, nil
}

type movementEvent struct {
	MovementID     string  `json:"movementId"`
	MovementNumber string  `json:"movementNumber"`
	Type           string  `json:"type"`
	ItemID         string  `json:"itemId"`
	ItemName       string  `json:"itemName"`
	Quantity       float64 `json:"quantity"`
	IsEntry        bool    `json:"isEntry"`
	StockBefore    float64 `json:"stockBefore"`
	StockAfter     float64 `json:"stockAfter"`
	OccurredAt     string  `json:"occurredAt"`
}

type stockAlertEvent struct {
	ItemID       string  `json:"itemId"`
	ItemName     string  `json:"itemName"`
	CurrentStock float64 `json:"currentStock"`
	ReorderPoint float64 `json:"reorderPoint"`
	MinStock     float64 `json:"minStock"`
	OccurredAt   string  `json:"occurredAt"`
}

type orderReceivedEvent struct {
	OrderID        string  `json:"orderId"`
	PurchaseNumber string  `json:"purchaseNumber"`
	SupplierID     string  `json:"supplierId"`
	SupplierName   string  `json:"supplierName"`
	Status         string  `json:"status"`
	Total          float64 `json:"total"`
	LineCount      int     `json:"lineCount"`
	OccurredAt     string  `json:"occurredAt"`
}

// MovementPosted publishes inventory.movement.posted.
func (p *Publisher) MovementPosted(m *models.StockMovement) {
	if p == nil {
		return
	}
	p.publish(SubjectMovementPosted, movementEvent{
		MovementID:     m.ID.String(),
		MovementNumber: m.MovementNumber,
		Type:           string(m.Type),
		ItemID:         m.InventoryItemID.String(),
		ItemName:       m.ItemName,
		Quantity:       m.Quantity,
		IsEntry:        m.IsEntry,
		StockBefore:    m.StockBefore,
		StockAfter:     m.StockAfter,
		OccurredAt:     m.CreatedAt.UTC().Format(time.RFC3339),
	}, logrus.Fields{"movementNumber": m.MovementNumber, "itemName": m.ItemName})
}

// StockLow publishes inventory.stock.low when a posting leaves an item at or
// below its reorder point.
func (p *Publisher) StockLow(item *models.InventoryItem) {
	if p == nil {
		return
	}
	p.publish(SubjectStockLow, stockAlertEvent{
		ItemID:       item.ID.String(),
		ItemName:     item.Name,
		CurrentStock: item.CurrentStock,
		ReorderPoint: item.ReorderPoint,
		MinStock:     item.MinStock,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}, logrus.Fields{"itemName": item.Name, "currentStock": item.CurrentStock})
}

// StockOut publishes inventory.stock.out when an item hits zero.
func (p *Publisher) StockOut(item *models.InventoryItem) {
	if p == nil {
		return
	}
	p.publish(SubjectStockOut, stockAlertEvent{
		ItemID:     item.ID.String(),
		ItemName:   item.Name,
		MinStock:   item.MinStock,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}, logrus.Fields{"itemName": item.Name})
}

// OrderReceived publishes inventory.purchase.received after reconciliation.
func (p *Publisher) OrderReceived(order *models.PurchaseOrder) {
	if p == nil {
		return
	}
	p.publish(SubjectOrderReceived, orderReceivedEvent{
		OrderID:        order.ID.String(),
		PurchaseNumber: order.PurchaseNumber,
		SupplierID:     order.SupplierID.String(),
		SupplierName:   order.SupplierName,
		Status:         string(order.Status),
		Total:          order.Total,
		LineCount:      len(order.Items),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}, logrus.Fields{"purchaseNumber": order.PurchaseNumber})
}

// publish marshals and sends; failures are logged, never propagated. Event
// delivery is best-effort and must not fail the originating request.
func (p *Publisher) publish(subject string, payload interface{}, fields logrus.Fields) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to marshal event")
		return
	}
	if _, err := p.js.Publish(subject, data); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to publish event")
		return
	}
	p.logger.WithFields(fields).WithField("subject", subject).Debug("Published event")
}

// IsConnected reports the NATS connection state.
func (p *Publisher) IsConnected() bool {
	return p != nil && p.nc != nil && p.nc.IsConnected()
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}
