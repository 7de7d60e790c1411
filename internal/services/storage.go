package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openfield-labs/interview-builder-backend/internal/order"
	"github.com/openfield-labs/interview-builder-backend/internal/platform/logger"
	"github.com/openfield-labs/interview-builder-backend/internal/repos"
	"github.com/openfield-labs/interview-builder-backend/internal/types"
	"github.com/openfield-labs/interview-builder-backend/internal/yamldoc"
)

// ErrEmptyDocument rejects a save with no YAML payload.
var ErrEmptyDocument = errors.New("yaml content is required")

var unsafeNamePattern = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StorageService persists host documents. Names are sanitized to safe
// filenames and deduplicated with numeric suffixes; the lint findings of the
// embedded order body are cached alongside the saved body.
type StorageService interface {
	Save(ctx context.Context, yamlBody, documentName string) (*types.SavedInterview, error)
	Get(ctx context.Context, id uuid.UUID) (*types.SavedInterview, error)
	List(ctx context.Context) ([]*types.SavedInterview, error)
}

type storageService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.SavedInterviewRepo
}

func NewStorageService(db *gorm.DB, log *logger.Logger, repo repos.SavedInterviewRepo) StorageService {
	return &storageService{db: db, log: log.With("service", "StorageService"), repo: repo}
}

func (s *storageService) Save(ctx context.Context, yamlBody, documentName string) (*types.SavedInterview, error) {
	if strings.TrimSpace(yamlBody) == "" {
		return nil, ErrEmptyDocument
	}
	name, err := s.uniqueName(ctx, sanitizeDocumentName(documentName))
	if err != nil {
		return nil, err
	}

	doc := &types.SavedInterview{
		ID:           uuid.New(),
		DocumentName: name,
		Body:         yamlBody,
		ByteSize:     len([]byte(yamlBody)),
	}
	if diags, ok := lintOrderBody(yamlBody); ok {
		if encoded, err := json.Marshal(diags); err == nil {
			doc.LastDiagnostics = encoded
		}
	}

	saved, err := s.repo.Create(ctx, nil, doc)
	if err != nil {
		s.log.Error("Failed to save document", "document_name", name, "error", err)
		return nil, err
	}
	s.log.Info("Saved document", "document_name", name, "bytes", doc.ByteSize)
	return saved, nil
}

func (s *storageService) Get(ctx context.Context, id uuid.UUID) (*types.SavedInterview, error) {
	return s.repo.GetByID(ctx, nil, id)
}

func (s *storageService) List(ctx context.Context) ([]*types.SavedInterview, error) {
	return s.repo.List(ctx, nil)
}

// uniqueName appends -1, -2, ... before the extension until the name is
// free.
func (s *storageService) uniqueName(ctx context.Context, name string) (string, error) {
	candidate := name
	for i := 1; ; i++ {
		_, err := s.repo.GetByName(ctx, nil, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		ext := ""
		stem := name
		if dot := strings.LastIndex(name, "."); dot >= 0 {
			stem, ext = name[:dot], name[dot:]
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
}

// sanitizeDocumentName normalizes a possibly user-provided name to a safe
// filename ending in .yml or .yaml.
func sanitizeDocumentName(documentName string) string {
	candidate := strings.TrimSpace(documentName)
	if candidate == "" {
		candidate = "untitled.yml"
	}
	if i := strings.LastIndexAny(candidate, `/\`); i >= 0 {
		candidate = candidate[i+1:]
	}
	candidate = unsafeNamePattern.ReplaceAllString(candidate, "_")
	lower := strings.ToLower(candidate)
	if !strings.HasSuffix(lower, ".yml") && !strings.HasSuffix(lower, ".yaml") {
		if candidate == "" {
			candidate = "untitled"
		}
		candidate += ".yml"
	}
	return candidate
}

// lintOrderBody extracts and lints the first interview_order block of the
// document, if there is one and it parses.
func lintOrderBody(yamlBody string) ([]order.Diagnostic, bool) {
	blockID, body, ok := yamldoc.OrderBody(yamlBody)
	if !ok {
		return nil, false
	}
	doc, err := order.Extract(blockID, body)
	if err != nil {
		return nil, false
	}
	return order.Lint(doc), true
}
