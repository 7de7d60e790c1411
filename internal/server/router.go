package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/openfield-labs/interview-builder-backend/internal/http/handlers"
	"github.com/openfield-labs/interview-builder-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins []string

	HealthHandler   *handlers.HealthHandler
	DocumentHandler *handlers.DocumentHandler
	OrderHandler    *handlers.OrderHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware("interview-builder"))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Host document
	api.POST("/parse", cfg.DocumentHandler.Parse)
	api.POST("/validate", cfg.DocumentHandler.Validate)
	api.POST("/variables", cfg.DocumentHandler.Variables)
	api.POST("/save", cfg.DocumentHandler.Save)
	api.GET("/documents", cfg.DocumentHandler.List)
	api.GET("/documents/:id", cfg.DocumentHandler.Get)

	// Interview order pipeline
	orderGroup := api.Group("/order")
	orderGroup.POST("/extract", cfg.OrderHandler.Extract)
	orderGroup.POST("/compile", cfg.OrderHandler.Compile)
	orderGroup.POST("/lint", cfg.OrderHandler.Lint)
	orderGroup.POST("/command", cfg.OrderHandler.Command)
	orderGroup.POST("/insert", cfg.OrderHandler.Insert)
	orderGroup.POST("/delete", cfg.OrderHandler.Delete)
	orderGroup.POST("/move", cfg.OrderHandler.Move)
	orderGroup.POST("/rename", cfg.OrderHandler.Rename)

	return router
}
