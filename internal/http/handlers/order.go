package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openfield-labs/interview-builder-backend/internal/http/response"
	"github.com/openfield-labs/interview-builder-backend/internal/order"
	"github.com/openfield-labs/interview-builder-backend/internal/platform/logger"
)

// OrderHandler exposes the interview-order pipeline: extract, compile, lint,
// free-text command insertion, and the structural edit operations. Every
// successful edit answers with the new document, its freshly compiled body,
// and the full diagnostics list.
type OrderHandler struct {
	log     *logger.Logger
	lintCfg order.LintConfig
}

func NewOrderHandler(log *logger.Logger, lintCfg order.LintConfig) *OrderHandler {
	return &OrderHandler{log: log.With("handler", "OrderHandler"), lintCfg: lintCfg}
}

type editResult struct {
	Document    order.Document     `json:"document"`
	Body        string             `json:"body"`
	Diagnostics []order.Diagnostic `json:"diagnostics"`
}

func (h *OrderHandler) respondWithDocument(c *gin.Context, doc order.Document) {
	response.RespondOK(c, editResult{
		Document:    doc,
		Body:        order.Compile(doc),
		Diagnostics: order.LintWith(doc, h.lintCfg),
	})
}

func (h *OrderHandler) Extract(c *gin.Context) {
	var req struct {
		ID   string `json:"id"`
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := order.Extract(req.ID, req.Body)
	if err != nil {
		h.log.Debug("order body failed to parse", "block_id", req.ID, "error", err)
		response.RespondParseFailure(c, "parse_failure", err, req.Body)
		return
	}
	h.respondWithDocument(c, doc)
}

func (h *OrderHandler) Compile(c *gin.Context) {
	var req struct {
		Document order.Document `json:"document"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	response.RespondOK(c, gin.H{"body": order.Compile(req.Document)})
}

func (h *OrderHandler) Lint(c *gin.Context) {
	var req struct {
		Document order.Document `json:"document"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	response.RespondOK(c, gin.H{"diagnostics": order.LintWith(req.Document, h.lintCfg)})
}

// Command parses one line of free text and inserts the resulting step at the
// given index. A rejected command keeps the client's text intact.
func (h *OrderHandler) Command(c *gin.Context) {
	var req struct {
		Document order.Document `json:"document"`
		Text     string         `json:"text"`
		Index    int            `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	node, err := order.ParseCommand(req.Text)
	if err != nil {
		response.RespondParseFailure(c, "command_rejected", err, req.Text)
		return
	}
	doc, err := order.Insert(req.Document, req.Index, node)
	if err != nil {
		h.respondEditError(c, err)
		return
	}
	h.respondWithDocument(c, doc)
}

func (h *OrderHandler) Insert(c *gin.Context) {
	var req struct {
		Document order.Document  `json:"document"`
		Index    int             `json:"index"`
		Node     json.RawMessage `json:"node"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	node, err := order.DecodeNode(req.Node)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_node", err)
		return
	}
	doc, err := order.Insert(req.Document, req.Index, node)
	if err != nil {
		h.respondEditError(c, err)
		return
	}
	h.respondWithDocument(c, doc)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	var req struct {
		Document order.Document `json:"document"`
		Index    int            `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := order.Delete(req.Document, req.Index)
	if err != nil {
		h.respondEditError(c, err)
		return
	}
	h.respondWithDocument(c, doc)
}

// Move is the reorder entry point behind drag and drop. To is interpreted in
// the post-removal index space.
func (h *OrderHandler) Move(c *gin.Context) {
	var req struct {
		Document order.Document `json:"document"`
		From     int            `json:"from"`
		To       int            `json:"to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := order.Move(req.Document, req.From, req.To)
	if err != nil {
		h.respondEditError(c, err)
		return
	}
	h.respondWithDocument(c, doc)
}

func (h *OrderHandler) Rename(c *gin.Context) {
	var req struct {
		Document order.Document `json:"document"`
		Index    int            `json:"index"`
		Value    string         `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := order.Rename(req.Document, req.Index, req.Value)
	if err != nil {
		h.respondEditError(c, err)
		return
	}
	h.respondWithDocument(c, doc)
}

func (h *OrderHandler) respondEditError(c *gin.Context, err error) {
	if errors.Is(err, order.ErrIndexOutOfRange) {
		response.RespondError(c, http.StatusBadRequest, "structural_edit_rejection", err)
		return
	}
	response.RespondError(c, http.StatusBadRequest, "invalid_edit", err)
}
