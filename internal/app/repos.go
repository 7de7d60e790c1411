package app

import (
	"gorm.io/gorm"

	"github.com/openfield-labs/interview-builder-backend/internal/platform/logger"
	"github.com/openfield-labs/interview-builder-backend/internal/repos"
)

type Repos struct {
	SavedInterviews repos.SavedInterviewRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		SavedInterviews: repos.NewSavedInterviewRepo(db, log),
	}
}
