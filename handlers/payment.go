package handlers

import (
	"errors"
	"net/http"

	"travelapp/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the payment workflow endpoints.
type PaymentHandler struct {
	Service payment.PaymentService
	Logger  *zap.Logger
}

func NewPaymentHandler(svc payment.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Logger: logger}
}

// InitiatePaymentHandler handles POST /api/payments/initiate.
// Returns 201 with {checkout_url, tx_ref} on a fresh checkout, 200 when an
// existing pending checkout was reused.
func (h *PaymentHandler) InitiatePaymentHandler(c *gin.Context) {
	var req payment.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if req.BookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking_id is required"})
		return
	}

	res, err := h.Service.Initiate(c.Request.Context(), req)
	if err != nil {
		h.renderPaymentError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Deduped {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"checkout_url": res.CheckoutURL, "tx_ref": res.TxRef})
}

// VerifyPaymentHandler handles GET /api/payments/verify?tx_ref=...
func (h *PaymentHandler) VerifyPaymentHandler(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_ref is required"})
		return
	}

	view, err := h.Service.Verify(c.Request.Context(), txRef)
	if err != nil {
		h.renderPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CallbackHandler handles POST /api/payments/callback. The callback is only
// acknowledged; reconciliation happens through an explicit verify call.
func (h *PaymentHandler) CallbackHandler(c *gin.Context) {
	var body struct {
		TxRef string `json:"tx_ref"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.TxRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_ref missing"})
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *PaymentHandler) renderPaymentError(c *gin.Context, err error) {
	var (
		valErr *payment.ValidationError
		nfErr  *payment.NotFoundError
		cfgErr *payment.ConfigurationError
		gwErr  *payment.GatewayError
	)
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Message})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Error()})
	case errors.As(err, &cfgErr):
		h.Logger.Error("payment gateway misconfigured", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment gateway is not configured"})
	case errors.As(err, &gwErr):
		resp := gin.H{"error": gwErr.Message}
		if gwErr.Payload != nil {
			resp["gateway"] = gwErr.Payload
		}
		c.JSON(http.StatusBadGateway, resp)
	default:
		h.Logger.Error("payment operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
