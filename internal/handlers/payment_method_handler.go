package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
	svcports "github.com/commercekit/authnet-gateway/internal/services/ports"
)

// PaymentMethodHandler serves the stored payment method endpoints.
type PaymentMethodHandler struct {
	lifecycle svcports.StoredMethodCapable
	methods   ports.PaymentMethodRepository
	customers ports.CustomerRepository
	logger    ports.Logger
}

// NewPaymentMethodHandler creates a payment method handler
func NewPaymentMethodHandler(
	lifecycle svcports.StoredMethodCapable,
	methods ports.PaymentMethodRepository,
	customers ports.CustomerRepository,
	logger ports.Logger,
) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		lifecycle: lifecycle,
		methods:   methods,
		customers: customers,
		logger:    logger,
	}
}

type createPaymentMethodRequest struct {
	OwnerID string `json:"owner_id" binding:"required"`

	Card struct {
		Number       string `json:"number" binding:"required"`
		ExpMonth     int    `json:"exp_month" binding:"required"`
		ExpYear      int    `json:"exp_year" binding:"required"`
		SecurityCode string `json:"security_code"`
	} `json:"card" binding:"required"`

	BillingAddress domain.Address `json:"billing_address"`
}

// paymentMethodResponse never echoes more card data than the stored record
// holds.
type paymentMethodResponse struct {
	ID        string `json:"id"`
	CardType  string `json:"card_type"`
	Last4     string `json:"last_four"`
	ExpMonth  int    `json:"exp_month"`
	ExpYear   int    `json:"exp_year"`
	OwnerID   string `json:"owner_id,omitempty"`
	Display   string `json:"display_name"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toPaymentMethodResponse(m *domain.PaymentMethod) paymentMethodResponse {
	resp := paymentMethodResponse{
		ID:       m.ID,
		CardType: string(m.CardType),
		Last4:    m.Last4,
		ExpMonth: m.ExpMonth,
		ExpYear:  m.ExpYear,
		Display:  m.DisplayName(),
	}
	if m.Owner != nil {
		resp.OwnerID = m.Owner.ID
	}
	if !m.CreatedAt.IsZero() {
		resp.CreatedAt = m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// Get returns a stored payment method by id
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	method, err := h.methods.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentMethodResponse(method))
}

// Create tokenizes a card on the gateway and stores the resulting method
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req createPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewInvalidRequestError("invalid request body"))
		return
	}

	owner, err := h.customers.GetByID(c.Request.Context(), req.OwnerID)
	if err != nil {
		writeError(c, err)
		return
	}

	method := &domain.PaymentMethod{
		ID:             uuid.NewString(),
		Owner:          owner,
		BillingAddress: req.BillingAddress,
	}
	card := domain.CardInput{
		Number:       req.Card.Number,
		ExpMonth:     req.Card.ExpMonth,
		ExpYear:      req.Card.ExpYear,
		SecurityCode: req.Card.SecurityCode,
	}

	err = h.lifecycle.CreatePaymentMethod(c.Request.Context(), method, card)
	recordOutcome("create_method", err)
	if err != nil {
		h.logger.Warn("create payment method failed",
			ports.String("owner_id", req.OwnerID),
			ports.Err(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentMethodResponse(method))
}

// Delete removes a stored payment method from the gateway and locally
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	method, err := h.methods.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	err = h.lifecycle.DeletePaymentMethod(c.Request.Context(), method)
	recordOutcome("delete_method", err)
	if err != nil {
		h.logger.Warn("delete payment method failed",
			ports.String("payment_method_id", method.ID),
			ports.Err(err))
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
