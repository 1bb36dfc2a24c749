package v1

import (
	"github.com/gin-gonic/gin"

	"stockreport/internal/infrastructure/http/v1/handlers"
)

// registerReportRoutes registers the stock movement report endpoints.
// Only the file download goes on the public group.
func registerReportRoutes(public, protected *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Reports == nil {
		return
	}

	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), cfg.Reports)
	RegisterStockMovementRoutes(protected.Group("/reports/stock-movement"), handler)
	RegisterDownloadRoute(public.Group("/reports/stock-movement"), handler)
}

// RegisterStockMovementRoutes registers the wizard routes on a group.
func RegisterStockMovementRoutes(rg *gin.RouterGroup, h *handlers.ReportsHandler) {
	rg.GET("/defaults", h.Defaults)
	rg.POST("", h.Generate)
	rg.POST("/preview", h.Preview)
	rg.GET("/history", h.History)
}

// RegisterDownloadRoute registers the stored file download. The path
// matches objectstore.DownloadPath.
func RegisterDownloadRoute(rg *gin.RouterGroup, h *handlers.ReportsHandler) {
	rg.GET("/:id/download", h.Download)
}
