// Package payment executes the payment lifecycle against the gateway:
// authorize, capture, void, refund. Every operation checks the local state
// machine before any network call and maps the classified gateway outcome
// back into local state mutations.
package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
	"github.com/commercekit/authnet-gateway/internal/gateway"
	svcports "github.com/commercekit/authnet-gateway/internal/services/ports"
	"github.com/commercekit/authnet-gateway/pkg/timeutil"
)

// Orchestrator implements the transaction surface of the gateway.
type Orchestrator struct {
	gateway     ports.GatewayClient
	payments    ports.PaymentRepository
	methods     ports.PaymentMethodRepository
	providerKey string
	clock       timeutil.Clock
	logger      ports.Logger
}

var (
	_ svcports.Authorizable  = (*Orchestrator)(nil)
	_ svcports.Capturable    = (*Orchestrator)(nil)
	_ svcports.Voidable      = (*Orchestrator)(nil)
	_ svcports.Refundable    = (*Orchestrator)(nil)
	_ svcports.OnsiteGateway = (*Orchestrator)(nil)
)

// NewOrchestrator creates a transaction orchestrator.
func NewOrchestrator(
	gatewayClient ports.GatewayClient,
	payments ports.PaymentRepository,
	methods ports.PaymentMethodRepository,
	providerKey string,
	clock timeutil.Clock,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		gateway:     gatewayClient,
		payments:    payments,
		methods:     methods,
		providerKey: providerKey,
		clock:       clock,
		logger:      logger,
	}
}

// Authorize places a hold on the payment amount using the stored payment
// profile. With capture=true the hold settles in the same call
// (new -> capture_completed); otherwise the payment moves to authorization.
func (o *Orchestrator) Authorize(ctx context.Context, payment *domain.Payment, capture bool) error {
	if !payment.CanBeAuthorized() {
		return domain.NewPreconditionError("payment is in state %q; only new payments can be authorized", payment.State)
	}
	method := payment.Method
	if method == nil {
		return domain.NewPreconditionError("payment has no payment method referenced")
	}
	if method.Owner == nil {
		return domain.NewPreconditionError("payment method has no owner referenced")
	}

	now := o.clock.Now()
	if method.IsExpired(now) {
		return domain.NewHardDeclineError("the provided payment method has expired")
	}

	txType := gateway.TransactionTypeAuthOnly
	if capture {
		txType = gateway.TransactionTypeAuthCapture
	}

	resp, err := o.gateway.CreateTransaction(ctx, gateway.TransactionRequest{
		Type:   txType,
		Amount: payment.Amount,
		Profile: &gateway.ProfileRef{
			CustomerProfileID: method.Owner.RemoteProfileID(o.providerKey),
			PaymentProfileID:  method.RemoteID,
		},
		InvoiceNumber: payment.Order.Number,
		CustomerIP:    payment.Order.IPAddress,
	})
	if err != nil {
		return err
	}

	c := gateway.Classify(resp)
	switch c.Outcome {
	case gateway.OutcomeSuccess:
		if capture {
			payment.State = domain.PaymentStateCaptureCompleted
			payment.CapturedAt = &now
		} else {
			payment.State = domain.PaymentStateAuthorization
		}
		payment.RemoteID = resp.TransactionID
		payment.AuthorizedAt = &now
		if err := o.payments.Save(ctx, payment); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}
		o.logger.Info("payment authorized",
			ports.String("payment_id", payment.ID),
			ports.String("remote_id", payment.RemoteID),
			ports.Bool("captured", capture))
		return nil

	case gateway.OutcomeStaleReference:
		// The stored payment profile is gone on the gateway; the local
		// record no longer references anything chargeable.
		if err := o.methods.Delete(ctx, method); err != nil {
			o.logger.Warn("failed to delete invalidated payment method",
				ports.String("payment_method_id", method.ID),
				ports.Err(err))
		}
		return domain.NewHardDeclineError("the provided payment method is no longer valid").
			WithGateway(c.Code, c.Text)

	default:
		return classificationError(c)
	}
}

// Capture settles a previously authorized hold. A nil amount captures the
// full authorized amount; the payment amount is adjusted to what was
// actually captured.
func (o *Orchestrator) Capture(ctx context.Context, payment *domain.Payment, amount *decimal.Decimal) error {
	if !payment.CanBeCaptured() {
		return domain.NewPreconditionError(`only payments in the "authorization" state can be captured (current: %q)`, payment.State)
	}

	captureAmount := payment.Amount
	if amount != nil {
		captureAmount = *amount
	}

	resp, err := o.gateway.CreateTransaction(ctx, gateway.TransactionRequest{
		Type:             gateway.TransactionTypePriorAuthCapture,
		Amount:           captureAmount,
		RefTransactionID: payment.RemoteID,
	})
	if err != nil {
		return err
	}

	c := gateway.Classify(resp)
	if c.Outcome != gateway.OutcomeSuccess {
		return classificationError(c)
	}

	now := o.clock.Now()
	payment.State = domain.PaymentStateCaptureCompleted
	payment.Amount = captureAmount
	payment.CapturedAt = &now
	if err := o.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	o.logger.Info("payment captured",
		ports.String("payment_id", payment.ID),
		ports.String("amount", captureAmount.String()))
	return nil
}

// Void cancels an uncaptured authorization (authorization ->
// authorization_voided).
func (o *Orchestrator) Void(ctx context.Context, payment *domain.Payment) error {
	if !payment.CanBeVoided() {
		return domain.NewPreconditionError(`only payments in the "authorization" state can be voided (current: %q)`, payment.State)
	}

	resp, err := o.gateway.CreateTransaction(ctx, gateway.TransactionRequest{
		Type:             gateway.TransactionTypeVoid,
		Amount:           payment.Amount,
		RefTransactionID: payment.RemoteID,
	})
	if err != nil {
		return err
	}

	c := gateway.Classify(resp)
	if c.Outcome != gateway.OutcomeSuccess {
		return classificationError(c)
	}

	payment.State = domain.PaymentStateAuthorizationVoided
	if err := o.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	o.logger.Info("payment voided", ports.String("payment_id", payment.ID))
	return nil
}

// Refund returns captured funds. A nil amount refunds the full payment
// amount. The requested amount must not exceed the remaining balance.
func (o *Orchestrator) Refund(ctx context.Context, payment *domain.Payment, amount *decimal.Decimal) error {
	if !payment.CanBeRefunded() {
		return domain.NewPreconditionError(`only payments in the "capture_completed" and "capture_partially_refunded" states can be refunded (current: %q)`, payment.State)
	}
	method := payment.Method
	if method == nil {
		return domain.NewPreconditionError("payment has no payment method referenced")
	}

	refundAmount := payment.Amount
	if amount != nil {
		refundAmount = *amount
	}
	if refundAmount.Sign() <= 0 {
		return domain.NewInvalidRequestError("refund amount must be positive")
	}
	balance := payment.Balance()
	if refundAmount.GreaterThan(balance) {
		return domain.NewInvalidRequestError("can't refund more than %s %s", balance.String(), payment.Currency)
	}

	resp, err := o.gateway.CreateTransaction(ctx, gateway.TransactionRequest{
		Type:             gateway.TransactionTypeRefund,
		Amount:           refundAmount,
		RefTransactionID: payment.RemoteID,
		// Refunds against a settled transaction are keyed on the stored
		// truncated card data.
		Card: &gateway.Card{
			Number:         method.Last4,
			ExpirationDate: fmt.Sprintf("%02d%d", method.ExpMonth, method.ExpYear),
		},
	})
	if err != nil {
		return err
	}

	c := gateway.Classify(resp)
	if c.Outcome != gateway.OutcomeSuccess {
		return classificationError(c)
	}

	payment.RefundedAmount = payment.RefundedAmount.Add(refundAmount)
	if payment.RefundedAmount.LessThan(payment.Amount) {
		payment.State = domain.PaymentStateCapturePartiallyRefunded
	} else {
		payment.State = domain.PaymentStateCaptureRefunded
	}
	if err := o.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	o.logger.Info("payment refunded",
		ports.String("payment_id", payment.ID),
		ports.String("amount", refundAmount.String()),
		ports.String("state", string(payment.State)))
	return nil
}

// classificationError maps a non-success classification to the error
// taxonomy, preserving the gateway's message text verbatim.
func classificationError(c gateway.Classification) error {
	switch c.Outcome {
	case gateway.OutcomeStaleReference:
		return domain.NewStaleReferenceError(c.Text).WithGateway(c.Code, c.Text)
	case gateway.OutcomeHardDecline:
		return domain.NewHardDeclineError("%s", c.Text).WithGateway(c.Code, c.Text)
	default:
		return domain.NewSoftValidationError(c.Text).WithGateway(c.Code, c.Text)
	}
}
