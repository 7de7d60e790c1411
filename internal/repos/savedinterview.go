package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openfield-labs/interview-builder-backend/internal/platform/logger"
	"github.com/openfield-labs/interview-builder-backend/internal/types"
)

type SavedInterviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, doc *types.SavedInterview) (*types.SavedInterview, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SavedInterview, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.SavedInterview, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.SavedInterview, error)
}

type savedInterviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedInterviewRepo(db *gorm.DB, baseLog *logger.Logger) SavedInterviewRepo {
	return &savedInterviewRepo{db: db, log: baseLog.With("repo", "SavedInterviewRepo")}
}

func (r *savedInterviewRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *savedInterviewRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.SavedInterview) (*types.SavedInterview, error) {
	if err := r.conn(tx).WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *savedInterviewRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SavedInterview, error) {
	var doc types.SavedInterview
	if err := r.conn(tx).WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *savedInterviewRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.SavedInterview, error) {
	var doc types.SavedInterview
	if err := r.conn(tx).WithContext(ctx).First(&doc, "document_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *savedInterviewRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.SavedInterview, error) {
	docs := []*types.SavedInterview{}
	if err := r.conn(tx).WithContext(ctx).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
