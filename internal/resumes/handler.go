package resumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats-backend/internal/extract"
	"resume-ats-backend/internal/llm"
	"resume-ats-backend/internal/shared/metrics"
	"resume-ats-backend/internal/shared/server/respond"
	"resume-ats-backend/internal/shared/storage/object"
	"resume-ats-backend/internal/shared/telemetry"
	"resume-ats-backend/internal/usage"
)

const maxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the resume service.
type Handler struct {
	Svc *Service
	// Store keeps the raw upload on disk; nil disables archiving.
	Store          object.ObjectStore
	AIConfigured   bool
	AIProvider     string
	AIModel        string
	ChatEnabled    bool
	ImproveEnabled bool
	// DBCheck pings the database; nil means the in-memory store is active.
	DBCheck func(ctx context.Context) error
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.POST("/analyze", h.analyze)
	rg.POST("/quick-score", h.quickScore)
	rg.POST("/chat", h.chat)
	rg.POST("/improve", h.improve)
	rg.GET("/health", h.health)
}

func (h *Handler) upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 10MB limit", nil)
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	if len(data) > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 10MB limit", nil)
		return
	}
	metrics.IncUpload()

	if h.Store != nil {
		fingerprint := c.GetHeader("X-Device-Fingerprint")
		if _, _, _, err := h.Store.Save(c.Request.Context(), fingerprint, header.Filename, bytes.NewReader(data)); err != nil {
			telemetry.Error("upload.archive.failed", map[string]any{"error": err.Error()})
		}
	}

	text, err := extract.Extract(data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		h.extractionError(c, err)
		return
	}

	info := FileInfo{
		FileType:     header.Header.Get("Content-Type"),
		FileSize:     header.Size,
		UploadSource: "upload",
	}
	h.runAnalysis(c, text, info)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	text := extract.CleanText(req.Text)
	if len(text) < extract.MinContentLength {
		respond.Error(c, http.StatusBadRequest, "insufficient_content",
			"the text is too short to analyze", nil)
		return
	}

	info := FileInfo{
		FileType:     "text/plain",
		FileSize:     int64(len(req.Text)),
		UploadSource: "paste",
	}
	h.runAnalysis(c, text, info)
}

func (h *Handler) runAnalysis(c *gin.Context, text string, info FileInfo) {
	fingerprint := c.GetHeader("X-Device-Fingerprint")
	start := metrics.NowMillis()
	resp, err := h.Svc.Analyze(c.Request.Context(), text, info, fingerprint)
	metrics.ObserveAnalysisDurationMs(metrics.NowMillis() - start)
	if err != nil {
		switch {
		case errors.Is(err, usage.ErrLimitReached):
			metrics.IncQuotaRejected()
			respond.Error(c, http.StatusPaymentRequired, "payment_required",
				"free analysis limit reached", nil)
		case llm.IsConfigError(err):
			respond.JSON(c, http.StatusServiceUnavailable, gin.H{
				"success":      false,
				"serverStatus": "offline",
				"error": respond.ErrorBody{
					Code:    "ai_offline",
					Message: "the analysis service is not configured",
				},
			})
		default:
			metrics.IncAnalysisFailed()
			respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
		}
		return
	}
	respond.OK(c, resp)
}

func (h *Handler) quickScore(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}
	text := extract.CleanText(req.Text)
	if len(text) < extract.MinContentLength {
		respond.Error(c, http.StatusBadRequest, "insufficient_content",
			"the text is too short to score", nil)
		return
	}
	respond.OK(c, h.Svc.QuickScore(text))
}

type chatRequest struct {
	Message string            `json:"message"`
	History []llm.ChatMessage `json:"history"`
	Context string            `json:"context"`
}

func (h *Handler) chat(c *gin.Context) {
	if !h.ChatEnabled {
		respond.Error(c, http.StatusNotFound, "feature_disabled", "chat is not enabled", nil)
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}

	reply, err := h.Svc.Chat(c.Request.Context(), req.History, req.Message, req.Context)
	if err != nil {
		if llm.IsConfigError(err) {
			respond.Error(c, http.StatusServiceUnavailable, "ai_offline",
				"the chat service is not configured", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate a reply", nil)
		return
	}
	respond.OK(c, gin.H{"reply": reply})
}

type improveRequest struct {
	Text      string `json:"text"`
	Category  string `json:"category"`
	UserInput string `json:"userInput"`
}

func (h *Handler) improve(c *gin.Context) {
	if !h.ImproveEnabled {
		respond.Error(c, http.StatusNotFound, "feature_disabled", "improve is not enabled", nil)
		return
	}
	var req improveRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	imp, err := h.Svc.Improve(c.Request.Context(), req.Text, req.Category, req.UserInput)
	if err != nil {
		if llm.IsConfigError(err) {
			respond.Error(c, http.StatusServiceUnavailable, "ai_offline",
				"the improve service is not configured", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to improve text", nil)
		return
	}
	respond.OK(c, imp)
}

func (h *Handler) health(c *gin.Context) {
	dbStatus := "memory"
	if h.DBCheck != nil {
		dbStatus = "ok"
		if err := h.DBCheck(c.Request.Context()); err != nil {
			dbStatus = "unreachable"
		}
	}
	respond.OK(c, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"ai": gin.H{
			"configured": h.AIConfigured,
			"provider":   h.AIProvider,
			"model":      h.AIModel,
		},
		"features": gin.H{
			"chat":    h.ChatEnabled,
			"improve": h.ImproveEnabled,
		},
	})
}

func (h *Handler) extractionError(c *gin.Context, err error) {
	metrics.IncExtractionFailed()
	if errors.Is(err, extract.ErrInsufficientContent) {
		respond.Error(c, http.StatusBadRequest, "insufficient_content",
			"the document contains too little readable text", nil)
		return
	}
	if extErr, ok := extract.AsExtractionError(err); ok {
		respond.Error(c, http.StatusBadRequest, "extraction_failed",
			"could not read the document", gin.H{
				"format":     extErr.Format,
				"suggestion": extErr.Suggestion,
			})
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process the document", nil)
}
