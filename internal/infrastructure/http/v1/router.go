// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockreport/internal/infrastructure/http/v1/handlers"
	"stockreport/internal/infrastructure/http/v1/middleware"
	"stockreport/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// DB is pinged by the readiness probe; nil for the in-memory store.
	DB handlers.Pinger

	// Reports runs the stock movement report.
	Reports handlers.ReportService

	// JWTValidator checks host-issued session tokens. Nil disables auth.
	JWTValidator middleware.JWTValidator

	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Download links carry an unguessable artifact id and must open
	// without a bearer token; everything else needs one when auth is on.
	v1 := router.Group("/api/v1")
	protected := v1.Group("")
	if cfg.JWTValidator != nil {
		protected.Use(middleware.Auth(cfg.JWTValidator))
	}
	registerReportRoutes(v1, protected, cfg)

	return router
}
