package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openfield-labs/interview-builder-backend/internal/http/response"
	"github.com/openfield-labs/interview-builder-backend/internal/platform/logger"
	"github.com/openfield-labs/interview-builder-backend/internal/services"
	"github.com/openfield-labs/interview-builder-backend/internal/yamldoc"
)

// DocumentHandler serves the host-document endpoints: block analysis,
// document validation, variable listing, and persistence.
type DocumentHandler struct {
	log     *logger.Logger
	storage services.StorageService
}

func NewDocumentHandler(log *logger.Logger, storage services.StorageService) *DocumentHandler {
	return &DocumentHandler{log: log.With("handler", "DocumentHandler"), storage: storage}
}

type yamlRequest struct {
	YAML string `json:"yaml"`
}

type validationIssue struct {
	BlockID string `json:"block_id,omitempty"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (h *DocumentHandler) Parse(c *gin.Context) {
	var req yamlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	blocks, err := yamldoc.AnalyzeBlocks(req.YAML)
	if err != nil {
		response.RespondParseFailure(c, "parse_failure", err, req.YAML)
		return
	}
	response.RespondOK(c, gin.H{"blocks": blocks})
}

func (h *DocumentHandler) Validate(c *gin.Context) {
	var req yamlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	messages := yamldoc.ValidateDocument(req.YAML)
	issues := make([]validationIssue, 0, len(messages))
	for _, m := range messages {
		issues = append(issues, validationIssue{Level: "error", Message: m})
	}
	response.RespondOK(c, gin.H{"issues": issues, "valid": len(issues) == 0})
}

func (h *DocumentHandler) Variables(c *gin.Context) {
	var req yamlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	response.RespondOK(c, gin.H{"variables": yamldoc.ExtractVariables(req.YAML)})
}

func (h *DocumentHandler) Save(c *gin.Context) {
	var req struct {
		YAML         string `json:"yaml"`
		DocumentName string `json:"document_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	saved, err := h.storage.Save(c.Request.Context(), req.YAML, req.DocumentName)
	if err != nil {
		if errors.Is(err, services.ErrEmptyDocument) {
			response.RespondError(c, http.StatusBadRequest, "empty_document", err)
			return
		}
		h.log.Error("save failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "save_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"id":            saved.ID,
		"document_name": saved.DocumentName,
		"bytes_written": saved.ByteSize,
	})
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.storage.List(c.Request.Context())
	if err != nil {
		h.log.Error("list failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"documents": docs})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	doc, err := h.storage.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		h.log.Error("get failed", "id", id, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	response.RespondOK(c, doc)
}
