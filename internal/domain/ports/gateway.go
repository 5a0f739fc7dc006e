package ports

import (
	"context"

	"github.com/commercekit/authnet-gateway/internal/gateway"
)

// GatewayClient issues the remote operations against the payment processor.
// Credentials are bound at construction. Implementations have no side effects
// beyond the network call and must surface transport failures (timeouts,
// malformed payloads) as infrastructure errors, never as gateway declines.
type GatewayClient interface {
	// AuthenticateTest verifies the configured credentials.
	AuthenticateTest(ctx context.Context) (*gateway.Response, error)

	// CreateCustomerProfile creates a payer record with one attached
	// payment profile.
	CreateCustomerProfile(ctx context.Context, profile gateway.CustomerProfile) (*gateway.Response, error)

	// CreateCustomerPaymentProfile attaches a payment profile to an
	// existing customer profile.
	CreateCustomerPaymentProfile(ctx context.Context, customerProfileID string, profile gateway.PaymentProfile) (*gateway.Response, error)

	// CreateTransaction runs an auth, capture, void, or refund.
	CreateTransaction(ctx context.Context, req gateway.TransactionRequest) (*gateway.Response, error)

	// DeleteCustomerPaymentProfile removes a stored payment profile.
	DeleteCustomerPaymentProfile(ctx context.Context, customerProfileID, paymentProfileID string) (*gateway.Response, error)
}
