package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
	svcports "github.com/commercekit/authnet-gateway/internal/services/ports"
)

// PaymentHandler serves the transaction endpoints: authorize, capture, void,
// refund, and payment lookup.
type PaymentHandler struct {
	gateway  svcports.OnsiteGateway
	payments ports.PaymentRepository
	logger   ports.Logger
}

// NewPaymentHandler creates a payment handler
func NewPaymentHandler(gateway svcports.OnsiteGateway, payments ports.PaymentRepository, logger ports.Logger) *PaymentHandler {
	return &PaymentHandler{
		gateway:  gateway,
		payments: payments,
		logger:   logger,
	}
}

type authorizeRequest struct {
	// Capture settles the hold in the same call.
	Capture bool `json:"capture"`
}

type amountRequest struct {
	// Amount is optional; when absent the full amount is used.
	Amount *string `json:"amount"`
}

// Get returns a payment by id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Authorize places a hold on the payment amount, optionally capturing it in
// the same call
func (h *PaymentHandler) Authorize(c *gin.Context) {
	var req authorizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, domain.NewInvalidRequestError("invalid request body"))
			return
		}
	}

	payment, err := h.payments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	err = h.gateway.Authorize(c.Request.Context(), payment, req.Capture)
	recordOutcome("authorize", err)
	if err != nil {
		h.logger.Warn("authorize failed",
			ports.String("payment_id", payment.ID),
			ports.Err(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Capture settles a previously authorized hold
func (h *PaymentHandler) Capture(c *gin.Context) {
	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}

	payment, err := h.payments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	err = h.gateway.Capture(c.Request.Context(), payment, amount)
	recordOutcome("capture", err)
	if err != nil {
		h.logger.Warn("capture failed",
			ports.String("payment_id", payment.ID),
			ports.Err(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Void cancels an uncaptured authorization
func (h *PaymentHandler) Void(c *gin.Context) {
	payment, err := h.payments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	err = h.gateway.Void(c.Request.Context(), payment)
	recordOutcome("void", err)
	if err != nil {
		h.logger.Warn("void failed",
			ports.String("payment_id", payment.ID),
			ports.Err(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Refund returns captured funds
func (h *PaymentHandler) Refund(c *gin.Context) {
	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}

	payment, err := h.payments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	err = h.gateway.Refund(c.Request.Context(), payment, amount)
	recordOutcome("refund", err)
	if err != nil {
		h.logger.Warn("refund failed",
			ports.String("payment_id", payment.ID),
			ports.Err(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// bindAmount parses the optional amount from the request body. Returns false
// after writing the error response when the body is invalid.
func (h *PaymentHandler) bindAmount(c *gin.Context) (*decimal.Decimal, bool) {
	var req amountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, domain.NewInvalidRequestError("invalid request body"))
			return nil, false
		}
	}
	if req.Amount == nil {
		return nil, true
	}
	amount, err := decimal.NewFromString(*req.Amount)
	if err != nil {
		writeError(c, domain.NewInvalidRequestError("invalid amount %q", *req.Amount))
		return nil, false
	}
	return &amount, true
}
