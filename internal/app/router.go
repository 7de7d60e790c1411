package app

import (
	"github.com/gin-gonic/gin"

	"github.com/openfield-labs/interview-builder-backend/internal/middleware"
	"github.com/openfield-labs/interview-builder-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:    cfg.AllowOrigins,
		HealthHandler:   handlerset.Health,
		DocumentHandler: handlerset.Document,
		OrderHandler:    handlerset.Order,
		AuthMiddleware:  auth,
	})
}
