package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"pet-harness-store/models"
	"pet-harness-store/store"
)

// DocumentStore is the slice of the document store the handlers use.
type DocumentStore interface {
	CreateDocument(ctx context.Context, category string, record any) (string, error)
	GetDocuments(ctx context.Context, category string, filter *store.Filter) ([]bson.M, error)
	CollectionNames(ctx context.Context) ([]string, error)
}

type ProductHandler struct {
	store DocumentStore
}

func NewProductHandler(docs DocumentStore) *ProductHandler {
	return &ProductHandler{store: docs}
}

// ListProducts handles GET /api/products?species=&size=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	if h.store == nil {
		respondStorageError(c, &store.StorageError{Op: "find", Category: store.CategoryProduct, Err: store.ErrNotConfigured})
		return
	}

	filter := store.ProductFilter(c.Query("species"), c.Query("size"))
	docs, err := h.store.GetDocuments(c.Request.Context(), store.CategoryProduct, filter)
	if err != nil {
		respondStorageError(c, err)
		return
	}

	products, dropped := store.DecodeProducts(docs)
	if dropped > 0 {
		log.WithFields(log.Fields{
			"matched":  len(docs),
			"dropped":  dropped,
			"returned": len(products),
		}).Warn("Dropped invalid product documents from listing")
	}

	c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	product := models.NewProduct()
	if err := c.ShouldBindJSON(&product); err != nil {
		respondBindError(c, err)
		return
	}

	if h.store == nil {
		respondStorageError(c, &store.StorageError{Op: "insert", Category: store.CategoryProduct, Err: store.ErrNotConfigured})
		return
	}

	id, err := h.store.CreateDocument(c.Request.Context(), store.CategoryProduct, product)
	if err != nil {
		respondStorageError(c, err)
		return
	}

	log.WithFields(log.Fields{"id": id, "title": product.Title}).Info("Created product")
	c.JSON(http.StatusCreated, models.CreateProductResponse{ID: id})
}
