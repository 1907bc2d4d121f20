package payments

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats-backend/internal/shared/metrics"
	"resume-ats-backend/internal/shared/server/respond"
	"resume-ats-backend/internal/shared/telemetry"
	"resume-ats-backend/internal/usage"
)

// Price of the one-time unlock. Kept server-side so the client cannot pick
// its own amount.
const (
	unlockPrice    = "4.99"
	unlockCurrency = "USD"
)

// Handler wires the payment endpoints to the PayPal client and usage service.
type Handler struct {
	PayPal *PayPalClient
	Usage  *usage.Service
}

// RegisterRoutes attaches payment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create-paypal-order", h.createOrder)
	rg.POST("/verify-paypal", h.verify)
}

func (h *Handler) createOrder(c *gin.Context) {
	if h.PayPal == nil || !h.PayPal.Configured() {
		respond.Error(c, http.StatusServiceUnavailable, "payments_unavailable",
			"payments are not configured", nil)
		return
	}

	order, err := h.PayPal.CreateOrder(c.Request.Context(), unlockPrice, unlockCurrency)
	if err != nil {
		telemetry.Error("payments.create_order.failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadGateway, "payment_provider_error",
			"could not create the payment order", nil)
		return
	}
	respond.OK(c, order)
}

type verifyRequest struct {
	OrderID     string `json:"orderId"`
	Fingerprint string `json:"fingerprint"`
}

func (h *Handler) verify(c *gin.Context) {
	if h.PayPal == nil || !h.PayPal.Configured() {
		respond.Error(c, http.StatusServiceUnavailable, "payments_unavailable",
			"payments are not configured", nil)
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.Fingerprint) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			"orderId and fingerprint are required", nil)
		return
	}

	order, err := h.PayPal.CaptureOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		telemetry.Error("payments.capture.failed", map[string]any{
			"error":   err.Error(),
			"orderId": req.OrderID,
		})
		respond.Error(c, http.StatusBadGateway, "payment_provider_error",
			"could not verify the payment", nil)
		return
	}
	if order.Status != "COMPLETED" {
		respond.Error(c, http.StatusPaymentRequired, "payment_incomplete",
			"the payment was not completed", gin.H{"status": order.Status})
		return
	}

	u, err := h.Usage.MarkPaid(c.Request.Context(), req.Fingerprint)
	if err != nil {
		telemetry.Error("payments.mark_paid.failed", map[string]any{
			"error":       err.Error(),
			"fingerprint": req.Fingerprint,
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error",
			"payment verified but the unlock could not be recorded", nil)
		return
	}

	metrics.IncPaymentVerified()
	telemetry.Info("payments.verified", map[string]any{
		"orderId":     order.ID,
		"fingerprint": req.Fingerprint,
	})
	respond.OK(c, gin.H{
		"success": true,
		"orderId": order.ID,
		"paid":    u.Paid,
	})
}
