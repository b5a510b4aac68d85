package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots title and price at order time so later catalog edits do
// not change historical orders. ProductID is not checked against the catalog.
type OrderItem struct {
	ProductID string   `json:"product_id" bson:"product_id" binding:"required"`
	Title     string   `json:"title" bson:"title" binding:"required"`
	Price     *float64 `json:"price" bson:"price" binding:"required,gte=0"`
	Size      *string  `json:"size" bson:"size"`
	Quantity  int      `json:"quantity" bson:"quantity" binding:"min=1"`
	ImageURL  *string  `json:"image_url" bson:"image_url"`
}

type orderItemFields OrderItem

// UnmarshalJSON defaults quantity to 1. An integral number such as 2.0 is
// accepted; null and fractions are not.
func (i *OrderItem) UnmarshalJSON(data []byte) error {
	var fields struct {
		orderItemFields
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	quantity, err := decodeQuantity(fields.Quantity)
	if err != nil {
		return err
	}
	*i = OrderItem(fields.orderItemFields)
	i.Quantity = quantity
	return nil
}

func decodeQuantity(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 1, nil
	}
	if string(raw) == "null" {
		return 0, nullFieldError("quantity")
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, &ValidationError{Fields: []FieldError{{
			Field:   "quantity",
			Rule:    "int",
			Message: "value is not a valid integer",
		}}}
	}
	return int(n), nil
}

type CustomerInfo struct {
	Name    string  `json:"name" bson:"name" binding:"required"`
	Email   string  `json:"email" bson:"email" binding:"required,email"`
	Address string  `json:"address" bson:"address" binding:"required"`
	City    *string `json:"city" bson:"city"`
	Country *string `json:"country" bson:"country"`
}

// Order is a checkout as stored in the "order" collection. Total is taken as
// submitted and never recomputed from the items.
type Order struct {
	Items    []OrderItem  `json:"items" bson:"items" binding:"required,dive"`
	Customer CustomerInfo `json:"customer" bson:"customer"`
	Total    *float64     `json:"total" bson:"total" binding:"required,gte=0"`
	Notes    *string      `json:"notes" bson:"notes"`
}

type CreateOrderResponse struct {
	ID string `json:"id"`
}

// OrderPlaced is published to the order events queue after an order is stored.
type OrderPlaced struct {
	EventID       string    `json:"event_id"`
	OrderID       string    `json:"order_id"`
	ItemCount     int       `json:"item_count"`
	Total         float64   `json:"total"`
	CustomerEmail string    `json:"customer_email"`
	PlacedAt      time.Time `json:"placed_at"`
}

// ItemCount sums item quantities.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// NewOrderPlaced builds the event for an order that was just stored.
func NewOrderPlaced(orderID string, order *Order, placedAt time.Time) OrderPlaced {
	event := OrderPlaced{
		EventID:       uuid.NewString(),
		OrderID:       orderID,
		ItemCount:     order.ItemCount(),
		CustomerEmail: order.Customer.Email,
		PlacedAt:      placedAt.UTC(),
	}
	if order.Total != nil {
		event.Total = *order.Total
	}
	return event
}
