// Package paymentmethod manages the lifecycle of tokenized payment methods:
// creation (tokenization through the profile resolver) and deletion.
package paymentmethod

import (
	"context"
	"fmt"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
	"github.com/commercekit/authnet-gateway/internal/gateway"
	svcports "github.com/commercekit/authnet-gateway/internal/services/ports"
)

// Lifecycle implements svcports.StoredMethodCapable.
type Lifecycle struct {
	resolver    svcports.ProfileResolver
	gateway     ports.GatewayClient
	methods     ports.PaymentMethodRepository
	providerKey string
	logger      ports.Logger
}

var _ svcports.StoredMethodCapable = (*Lifecycle)(nil)

// NewLifecycle creates a payment method lifecycle service.
func NewLifecycle(
	resolver svcports.ProfileResolver,
	gatewayClient ports.GatewayClient,
	methods ports.PaymentMethodRepository,
	providerKey string,
	logger ports.Logger,
) *Lifecycle {
	return &Lifecycle{
		resolver:    resolver,
		gateway:     gatewayClient,
		methods:     methods,
		providerKey: providerKey,
		logger:      logger,
	}
}

// CreatePaymentMethod tokenizes the card on the gateway and populates the
// local record: card type, last4, expiry, remote payment-profile id, and the
// expiration instant (last valid instant of the expiration month).
func (l *Lifecycle) CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod, card domain.CardInput) error {
	if method.Owner == nil {
		return domain.NewPreconditionError("payment method has no owner referenced")
	}
	if !domain.ValidLuhn(card.Number) {
		return domain.NewInvalidRequestError("invalid card number")
	}
	cardType, err := domain.DetectCardType(card.Number)
	if err != nil {
		return domain.NewHardDeclineError("unsupported credit card type")
	}

	token, err := l.resolver.Resolve(ctx, method.Owner, method, card)
	if err != nil {
		return err
	}

	method.RemoteID = token
	method.CardType = cardType
	method.Last4 = card.Last4()
	method.ExpMonth = card.ExpMonth
	method.ExpYear = card.ExpYear
	method.ExpiresAt = domain.CardExpirationTime(card.ExpMonth, card.ExpYear)

	if err := l.methods.Save(ctx, method); err != nil {
		return fmt.Errorf("save payment method: %w", err)
	}
	l.logger.Info("payment method created",
		ports.String("payment_method_id", method.ID),
		ports.String("remote_id", method.RemoteID),
		ports.String("card_type", string(cardType)))
	return nil
}

// DeletePaymentMethod removes the payment profile from the gateway and then
// the local record. A profile already unknown to the gateway counts as
// success so the delete is idempotent; on any other remote failure the local
// record is kept.
func (l *Lifecycle) DeletePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	if method.Owner == nil {
		return domain.NewPreconditionError("payment method has no owner referenced")
	}
	customerProfileID := method.Owner.RemoteProfileID(l.providerKey)

	resp, err := l.gateway.DeleteCustomerPaymentProfile(ctx, customerProfileID, method.RemoteID)
	if err != nil {
		return err
	}

	c := gateway.Classify(resp)
	switch c.Outcome {
	case gateway.OutcomeSuccess:
	case gateway.OutcomeStaleReference:
		l.logger.Info("payment profile already removed on gateway",
			ports.String("payment_method_id", method.ID),
			ports.String("remote_id", method.RemoteID))
	default:
		return domain.NewHardDeclineError("unable to delete payment method").
			WithGateway(c.Code, c.Text)
	}

	if err := l.methods.Delete(ctx, method); err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	l.logger.Info("payment method deleted",
		ports.String("payment_method_id", method.ID))
	return nil
}
