package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Stub.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Same paths as the pricing proxy, so catalog.base_url can point at /api
	api := router.Group("/api")
	{
		api.GET("/product-details", handler.ProductDetails)
		api.GET("/products/search", handler.SearchProducts)
	}

	return router
}
