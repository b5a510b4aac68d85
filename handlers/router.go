package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"pet-harness-store/models"
)

type RouterConfig struct {
	Store           DocumentStore
	Notifier        OrderNotifier
	DatabaseURLSet  bool
	DatabaseNameSet bool
}

// NewRouter wires every route. Request binding is switched to the models
// validator so request bodies and stored documents obey the same rules.
func NewRouter(cfg RouterConfig) *gin.Engine {
	binding.Validator = models.DefaultValidator()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS())

	healthHandler := NewHealthHandler(cfg.Store, cfg.DatabaseURLSet, cfg.DatabaseNameSet)
	productHandler := NewProductHandler(cfg.Store)
	orderHandler := NewOrderHandler(cfg.Store, cfg.Notifier)

	router.GET("/", healthHandler.Root)
	router.GET("/test", healthHandler.Diagnostics)

	api := router.Group("/api")
	api.GET("/products", productHandler.ListProducts)
	api.POST("/products", productHandler.CreateProduct)
	api.POST("/orders", orderHandler.CreateOrder)

	return router
}
