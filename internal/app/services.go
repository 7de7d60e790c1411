package app

import (
	"gorm.io/gorm"

	"github.com/openfield-labs/interview-builder-backend/internal/platform/logger"
	"github.com/openfield-labs/interview-builder-backend/internal/services"
)

type Services struct {
	Storage services.StorageService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Storage: services.NewStorageService(db, log, reposet.SavedInterviews),
	}
}
