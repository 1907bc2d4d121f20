// Package admin serves the operator dashboard endpoints behind a shared
// secret header.
package admin

import (
	"crypto/subtle"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resume-ats-backend/internal/resumes"
	"resume-ats-backend/internal/shared/server/respond"
)

const secretHeader = "X-Admin-Secret"

// Handler wires the admin endpoints to the resume service.
type Handler struct {
	Svc    *resumes.Service
	Secret string
}

// RegisterRoutes attaches admin routes to the router group. All routes
// require the shared secret; /secure routes additionally expose raw data.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(h.requireSecret)
	rg.GET("/stats", h.stats)

	secure := rg.Group("/secure")
	secure.GET("/all-data", h.allData)
	secure.GET("/export-csv", h.exportCSV)
}

func (h *Handler) requireSecret(c *gin.Context) {
	if h.Secret == "" {
		respond.Error(c, http.StatusServiceUnavailable, "admin_disabled", "admin access is not configured", nil)
		return
	}
	provided := c.GetHeader(secretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.Secret)) != 1 {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid admin secret", nil)
		return
	}
	c.Next()
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load stats", nil)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) allData(c *gin.Context) {
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)

	records, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resumes", nil)
		return
	}
	respond.OK(c, gin.H{
		"count":   len(records),
		"resumes": records,
	})
}

var csvHeader = []string{
	"id", "name", "email", "phone", "linkedin", "location", "role",
	"experience_years", "ats_score", "file_type", "upload_source",
	"created_at", "updated_at",
}

func (h *Handler) exportCSV(c *gin.Context) {
	records, err := h.Svc.List(c.Request.Context(), 10000, 0)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export resumes", nil)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="resumes.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(csvHeader)
	for _, r := range records {
		score := ""
		if r.ATSScore != nil {
			score = strconv.Itoa(*r.ATSScore)
		}
		_ = w.Write([]string{
			r.ID, r.Name, r.Email, r.Phone, r.LinkedIn, r.Location, r.Role,
			r.ExperienceYears, score, r.FileType, r.UploadSource,
			r.CreatedAt.Format(time.RFC3339), r.UpdatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
