package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"salesdash/api/logger"
	"salesdash/api/metrics"
	"salesdash/api/models"
	"salesdash/api/store"
)

// IngestHandlers accepts new order lines for a writable store.
type IngestHandlers struct {
	Sink store.OrderSink
}

func NewIngestHandlers(sink store.OrderSink) *IngestHandlers {
	return &IngestHandlers{Sink: sink}
}

// IngestOrders stores a JSON array of order lines.
func (h *IngestHandlers) IngestOrders(c *gin.Context) {
	var incoming []models.OrderLine
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if len(incoming) == 0 {
		c.Status(http.StatusOK)
		return
	}

	for i := range incoming {
		line := &incoming[i]
		if line.OrderID == "" || line.CustomerUniqueID == "" || line.PurchaseTimestamp.IsZero() || line.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each line needs orderId, customerUniqueId, purchaseTimestamp and a non-negative price", "index": i})
			return
		}
		if line.LineID == "" {
			line.LineID = uuid.New().String()
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Sink.InsertOrderLines(ctx, incoming); err != nil {
		logger.Error("Error inserting order lines", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record order lines"})
		return
	}
	metrics.OrdersIngested.Add(float64(len(incoming)))

	c.JSON(http.StatusCreated, gin.H{"inserted": len(incoming)})
}
