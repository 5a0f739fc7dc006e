// Package ports defines the capability interfaces the host order system
// consumes. The gateway is exposed as a small interface set rather than a
// single fat type so hosts depend only on the operations they use.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/commercekit/authnet-gateway/internal/domain"
)

// Authorizable places a hold on funds, optionally capturing in the same call.
type Authorizable interface {
	Authorize(ctx context.Context, payment *domain.Payment, capture bool) error
}

// Capturable settles a previously authorized hold. A nil amount captures the
// full authorized amount.
type Capturable interface {
	Capture(ctx context.Context, payment *domain.Payment, amount *decimal.Decimal) error
}

// Voidable cancels an authorization before capture.
type Voidable interface {
	Void(ctx context.Context, payment *domain.Payment) error
}

// Refundable returns captured funds. A nil amount refunds the full payment
// amount.
type Refundable interface {
	Refund(ctx context.Context, payment *domain.Payment, amount *decimal.Decimal) error
}

// StoredMethodCapable manages tokenized payment methods on the gateway.
type StoredMethodCapable interface {
	CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod, card domain.CardInput) error
	DeletePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error
}

// OnsiteGateway is the full transaction surface.
type OnsiteGateway interface {
	Authorizable
	Capturable
	Voidable
	Refundable
}

// ProfileResolver maps a local customer plus card data to a remote
// payment-profile id, creating and reconciling remote profiles as needed.
type ProfileResolver interface {
	Resolve(ctx context.Context, customer *domain.Customer, method *domain.PaymentMethod, card domain.CardInput) (string, error)
}
