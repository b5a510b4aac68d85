package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOrder = `{
	"items": [
		{"product_id": "does-not-exist", "title": "Classic Harness", "price": 19.99, "size": "M"},
		{"product_id": "abc", "title": "Leash", "price": 5, "quantity": 3}
	],
	"customer": {"name": "Sam", "email": "sam@example.com", "address": "1 Main St"},
	"total": 1
}`

func TestOrderUnmarshalJSON(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(validOrder), &o))

	require.Len(t, o.Items, 2)
	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, 3, o.Items[1].Quantity)
	assert.Equal(t, 4, o.ItemCount())
	assert.Nil(t, o.Customer.City)

	// total is taken as submitted, not recomputed from items
	require.NoError(t, Validate(&o))
	assert.Equal(t, 1.0, *o.Total)
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "malformed email",
			body:      `{"items":[],"customer":{"name":"Sam","email":"not-an-email","address":"x"},"total":0}`,
			wantField: "customer.email",
		},
		{
			name:      "missing address",
			body:      `{"items":[],"customer":{"name":"Sam","email":"sam@example.com"},"total":0}`,
			wantField: "customer.address",
		},
		{
			name:      "negative total",
			body:      `{"items":[],"customer":{"name":"Sam","email":"sam@example.com","address":"x"},"total":-1}`,
			wantField: "total",
		},
		{
			name:      "missing items",
			body:      `{"customer":{"name":"Sam","email":"sam@example.com","address":"x"},"total":0}`,
			wantField: "items",
		},
		{
			name:      "zero quantity",
			body:      `{"items":[{"product_id":"p","title":"t","price":1,"quantity":0}],"customer":{"name":"Sam","email":"sam@example.com","address":"x"},"total":0}`,
			wantField: "items[0].quantity",
		},
		{
			name:      "negative item price",
			body:      `{"items":[{"product_id":"p","title":"t","price":-2}],"customer":{"name":"Sam","email":"sam@example.com","address":"x"},"total":0}`,
			wantField: "items[0].price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o Order
			require.NoError(t, json.Unmarshal([]byte(tt.body), &o))

			var verr *ValidationError
			require.ErrorAs(t, Validate(&o), &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
			assert.Contains(t, verr.Error(), tt.wantField)
		})
	}
}

func TestValidateOrderAcceptsEmptyItems(t *testing.T) {
	var o Order
	body := `{"items":[],"customer":{"name":"Sam","email":"sam@example.com","address":"x"},"total":0}`
	require.NoError(t, json.Unmarshal([]byte(body), &o))
	assert.NoError(t, Validate(&o))
}

func TestNewOrderPlaced(t *testing.T) {
	var order Order
	body := `{
		"items": [{"product_id":"p1","title":"Harness","price":10,"quantity":2},{"product_id":"p2","title":"Leash","price":5}],
		"customer": {"name":"Sam","email":"sam@example.com","address":"1 Main St"},
		"total": 25
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &order))

	placedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	event := NewOrderPlaced("65f0c0ffee", &order, placedAt)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "65f0c0ffee", event.OrderID)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, 25.0, event.Total)
	assert.Equal(t, "sam@example.com", event.CustomerEmail)
	assert.Equal(t, time.UTC, event.PlacedAt.Location())
	assert.True(t, placedAt.Equal(event.PlacedAt))
}

func TestOrderItemQuantity(t *testing.T) {
	decode := func(quantity string) (OrderItem, error) {
		var item OrderItem
		body := `{"product_id":"p1","title":"Harness","price":10,"quantity":` + quantity + `}`
		err := json.Unmarshal([]byte(body), &item)
		return item, err
	}

	t.Run("integral float", func(t *testing.T) {
		item, err := decode("2.0")
		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, "p1", item.ProductID)
		require.NotNil(t, item.Price)
		assert.Equal(t, 10.0, *item.Price)
	})

	t.Run("null", func(t *testing.T) {
		_, err := decode("null")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "quantity", verr.Fields[0].Field)
		assert.Equal(t, "not_null", verr.Fields[0].Rule)
	})

	t.Run("fraction", func(t *testing.T) {
		_, err := decode("1.5")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "int", verr.Fields[0].Rule)
	})

	t.Run("string", func(t *testing.T) {
		_, err := decode(`"two"`)
		assert.Error(t, err)
	})
}
