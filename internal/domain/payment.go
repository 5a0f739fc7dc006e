package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentState represents the lifecycle state of a payment.
// Transitions: new -> authorization -> {authorization_voided, capture_completed};
// new -> capture_completed (direct capture);
// capture_completed -> capture_partially_refunded -> capture_refunded.
type PaymentState string

const (
	PaymentStateNew                      PaymentState = "new"
	PaymentStateAuthorization            PaymentState = "authorization"
	PaymentStateAuthorizationVoided      PaymentState = "authorization_voided"
	PaymentStateCaptureCompleted         PaymentState = "capture_completed"
	PaymentStateCapturePartiallyRefunded PaymentState = "capture_partially_refunded"
	PaymentStateCaptureRefunded          PaymentState = "capture_refunded"
)

// Order carries the order fields the gateway needs. The order entity itself
// is owned by the host commerce system.
type Order struct {
	Number    string `json:"number"`
	IPAddress string `json:"ip_address"`
}

// Payment represents a single charge against an order. The record is owned by
// the host order-management system; this layer only mutates it through the
// defined lifecycle transitions.
type Payment struct {
	ID             string          `json:"id"`
	State          PaymentState    `json:"state"`
	Amount         decimal.Decimal `json:"amount"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Currency       string          `json:"currency"`

	// RemoteID is the gateway transaction id, set once authorized.
	RemoteID string `json:"remote_id"`

	AuthorizedAt *time.Time `json:"authorized_at"`
	CapturedAt   *time.Time `json:"captured_at"`

	Order  Order          `json:"order"`
	Method *PaymentMethod `json:"method"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Balance returns the amount still refundable.
func (p *Payment) Balance() decimal.Decimal {
	return p.Amount.Sub(p.RefundedAmount)
}

// CanBeAuthorized returns true if the payment has not been sent to the gateway yet.
func (p *Payment) CanBeAuthorized() bool {
	return p.State == PaymentStateNew
}

// CanBeCaptured returns true if the payment holds an uncaptured authorization.
func (p *Payment) CanBeCaptured() bool {
	return p.State == PaymentStateAuthorization
}

// CanBeVoided returns true if the payment holds an uncaptured authorization.
func (p *Payment) CanBeVoided() bool {
	return p.State == PaymentStateAuthorization
}

// CanBeRefunded returns true if captured funds remain refundable.
func (p *Payment) CanBeRefunded() bool {
	return p.State == PaymentStateCaptureCompleted ||
		p.State == PaymentStateCapturePartiallyRefunded
}

// IsTerminal returns true once no further transition is possible.
func (p *Payment) IsTerminal() bool {
	return p.State == PaymentStateAuthorizationVoided ||
		p.State == PaymentStateCaptureRefunded
}
