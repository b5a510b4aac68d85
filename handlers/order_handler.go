package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pet-harness-store/models"
	"pet-harness-store/store"
)

// OrderNotifier announces stored orders, e.g. to a warehouse queue.
type OrderNotifier interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderPlaced) error
}

type OrderHandler struct {
	store    DocumentStore
	notifier OrderNotifier
}

// NewOrderHandler builds the handler; notifier may be nil.
func NewOrderHandler(docs DocumentStore, notifier OrderNotifier) *OrderHandler {
	return &OrderHandler{store: docs, notifier: notifier}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		respondBindError(c, err)
		return
	}

	if h.store == nil {
		respondStorageError(c, &store.StorageError{Op: "insert", Category: store.CategoryOrder, Err: store.ErrNotConfigured})
		return
	}

	id, err := h.store.CreateDocument(c.Request.Context(), store.CategoryOrder, order)
	if err != nil {
		respondStorageError(c, err)
		return
	}

	log.WithFields(log.Fields{"id": id, "items": len(order.Items)}).Info("Created order")

	// The order is already stored; a failed notification is only logged.
	if h.notifier != nil {
		event := models.NewOrderPlaced(id, &order, time.Now())
		if err := h.notifier.PublishOrderPlaced(c.Request.Context(), event); err != nil {
			log.WithError(err).WithField("order_id", id).Error("Failed to publish order placed event")
		}
	}

	c.JSON(http.StatusCreated, models.CreateOrderResponse{ID: id})
}
