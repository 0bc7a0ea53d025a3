package router

import (
	"github.com/gin-gonic/gin"

	"goodsin/internal/config"
	"goodsin/internal/handler"
	"goodsin/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	catalogH *handler.CatalogHandler,
	receivingH *handler.ReceivingHandler,
	poH *handler.PurchaseOrderHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Protected routes - require valid scope token
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWT))

	// Master catalog
	catalog := v1.Group("/catalog")
	catalog.GET("", catalogH.List)
	catalog.POST("", catalogH.Upsert)
	catalog.POST("/sync", catalogH.Sync)
	catalog.POST("/import", catalogH.Import)

	// Receiving sessions
	receiving := v1.Group("/receiving/sessions")
	receiving.POST("", receivingH.Create)
	receiving.GET("/:id", receivingH.Get)
	receiving.PATCH("/:id/lines/:index", receivingH.PatchLine)
	receiving.POST("/:id/set-all", receivingH.SetAll)
	receiving.POST("/:id/confirm", receivingH.Confirm)
	receiving.DELETE("/:id", receivingH.Cancel)
	receiving.GET("/:id/report", receivingH.Report)
	receiving.GET("/:id/document", receivingH.Document)

	// Purchase orders (read-only sources for matching and sync)
	orders := v1.Group("/purchase-orders")
	orders.GET("", poH.List)
	orders.GET("/:id", poH.Get)

	return r
}
