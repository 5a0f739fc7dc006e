// Package handlers exposes the payment operations over HTTP with gin.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/pkg/observability"
)

// errorResponse is the JSON error body returned to API clients.
type errorResponse struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	GatewayCode    string `json:"gateway_code,omitempty"`
	GatewayMessage string `json:"gateway_message,omitempty"`
}

// writeError maps the error taxonomy onto HTTP statuses and writes the JSON
// body. Unknown errors become a 500 without leaking internals.
func writeError(c *gin.Context, err error) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    "INTERNAL",
			Message: "an internal error occurred",
		})
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case domain.ErrorCodePreconditionFailed:
		status = http.StatusConflict
	case domain.ErrorCodeInvalidRequest:
		status = http.StatusBadRequest
	case domain.ErrorCodeHardDecline:
		status = http.StatusPaymentRequired
	case domain.ErrorCodeSoftValidation:
		status = http.StatusUnprocessableEntity
	case domain.ErrorCodeStaleReference:
		status = http.StatusConflict
	case domain.ErrorCodeNotFound:
		status = http.StatusNotFound
	case domain.ErrorCodeInfrastructure:
		status = http.StatusBadGateway
	}

	c.JSON(status, errorResponse{
		Code:           string(domainErr.Code),
		Message:        domainErr.Message,
		GatewayCode:    domainErr.GatewayCode,
		GatewayMessage: domainErr.GatewayMessage,
	})
}

// recordOutcome counts the business outcome of one payment operation.
func recordOutcome(operation string, err error) {
	outcome := "success"
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		outcome = strings.ToLower(string(domainErr.Code))
	} else if err != nil {
		outcome = "error"
	}
	observability.RecordPaymentOperation(operation, outcome)
}
