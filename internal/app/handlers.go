package app

import (
	"github.com/openfield-labs/interview-builder-backend/internal/http/handlers"
	"github.com/openfield-labs/interview-builder-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Document *handlers.DocumentHandler
	Order    *handlers.OrderHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   handlers.NewHealthHandler(),
		Document: handlers.NewDocumentHandler(log, serviceset.Storage),
		Order:    handlers.NewOrderHandler(log, cfg.Lint),
	}
}
