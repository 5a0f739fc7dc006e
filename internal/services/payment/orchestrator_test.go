package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/gateway"
	"github.com/commercekit/authnet-gateway/pkg/timeutil"
	"github.com/commercekit/authnet-gateway/test/mocks"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setupOrchestrator(t *testing.T) (*Orchestrator, *mocks.MockGatewayClient, *mocks.MockPaymentRepository, *mocks.MockPaymentMethodRepository) {
	t.Helper()
	client := mocks.NewMockGatewayClient()
	payments := mocks.NewMockPaymentRepository()
	methods := mocks.NewMockPaymentMethodRepository()
	o := NewOrchestrator(client, payments, methods, "authnet_default", timeutil.Fixed(testNow), mocks.NewMockLogger())
	return o, client, payments, methods
}

func testPayment(state domain.PaymentState) *domain.Payment {
	owner := &domain.Customer{
		ID:               "cust-1",
		Email:            "payer@example.com",
		RemoteProfileIDs: map[string]string{"authnet_default": "9000001"},
	}
	return &domain.Payment{
		ID:       "pay-1",
		State:    state,
		Amount:   decimal.NewFromFloat(70),
		Currency: "USD",
		Order:    domain.Order{Number: "order-77", IPAddress: "203.0.113.9"},
		Method: &domain.PaymentMethod{
			ID:        "pm-1",
			RemoteID:  "8000001",
			CardType:  domain.CardTypeVisa,
			Last4:     "1111",
			ExpMonth:  12,
			ExpYear:   2027,
			ExpiresAt: domain.CardExpirationTime(12, 2027),
			Owner:     owner,
		},
	}
}

func successTransaction(transID string) *gateway.Response {
	return &gateway.Response{
		ResultCode:    gateway.ResultCodeOk,
		Messages:      []gateway.Message{{Code: "I00001", Text: "Successful."}},
		TransactionID: transID,
	}
}

// TestAuthorize_Success moves the payment to authorization and records the
// gateway transaction id
func TestAuthorize_Success(t *testing.T) {
	o, client, payments, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateNew)
	client.QueueCreateTransaction(successTransaction("trans-123"), nil)

	err := o.Authorize(context.Background(), p, false)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateAuthorization, p.State)
	assert.Equal(t, "trans-123", p.RemoteID)
	require.NotNil(t, p.AuthorizedAt)
	assert.Equal(t, testNow, *p.AuthorizedAt)
	assert.Nil(t, p.CapturedAt)
	assert.Equal(t, 1, payments.SaveCalls)

	req := client.LastTransactionReq
	assert.Equal(t, gateway.TransactionTypeAuthOnly, req.Type)
	assert.Equal(t, "9000001", req.Profile.CustomerProfileID)
	assert.Equal(t, "8000001", req.Profile.PaymentProfileID)
	assert.Equal(t, "order-77", req.InvoiceNumber)
	assert.Equal(t, "203.0.113.9", req.CustomerIP)
}

// TestAuthorize_WithCapture settles in the same call
func TestAuthorize_WithCapture(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateNew)
	client.QueueCreateTransaction(successTransaction("trans-124"), nil)

	err := o.Authorize(context.Background(), p, true)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCaptureCompleted, p.State)
	require.NotNil(t, p.CapturedAt)
	assert.Equal(t, testNow, *p.CapturedAt)
	assert.Equal(t, gateway.TransactionTypeAuthCapture, client.LastTransactionReq.Type)
}

// TestAuthorize_WrongState rejects non-new payments before any network call
func TestAuthorize_WrongState(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateCaptureCompleted)

	err := o.Authorize(context.Background(), p, false)

	assert.True(t, domain.IsPreconditionError(err))
	assert.Equal(t, 0, client.CreateTransactionCalls)
}

// TestAuthorize_ExpiredMethod declines locally without calling the gateway
func TestAuthorize_ExpiredMethod(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateNew)
	p.Method.ExpiresAt = domain.CardExpirationTime(1, 2026)

	err := o.Authorize(context.Background(), p, false)

	assert.True(t, domain.IsHardDeclineError(err))
	assert.Contains(t, err.Error(), "expired")
	assert.Equal(t, 0, client.CreateTransactionCalls)
	assert.Equal(t, domain.PaymentStateNew, p.State)
}

// TestAuthorize_StaleProfile deletes the invalidated local method and reports
// a hard decline
func TestAuthorize_StaleProfile(t *testing.T) {
	o, client, _, methods := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateNew)
	methods.Put(p.Method)
	client.QueueCreateTransaction(&gateway.Response{
		ResultCode: gateway.ResultCodeError,
		Messages:   []gateway.Message{{Code: "E00040", Text: "The record cannot be found."}},
	}, nil)

	err := o.Authorize(context.Background(), p, false)

	assert.True(t, domain.IsHardDeclineError(err))
	assert.Contains(t, err.Error(), "no longer valid")
	assert.Equal(t, 1, methods.DeleteCalls)
	assert.False(t, methods.Has("pm-1"))
	assert.Equal(t, domain.PaymentStateNew, p.State)
}

// TestAuthorize_SoftDecline surfaces the gateway text verbatim
func TestAuthorize_SoftDecline(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateNew)
	client.QueueCreateTransaction(&gateway.Response{
		ResultCode: gateway.ResultCodeError,
		Messages:   []gateway.Message{{Code: "E00015", Text: "The field length is invalid for Card Number."}},
	}, nil)

	err := o.Authorize(context.Background(), p, false)

	assert.True(t, domain.IsSoftValidationError(err))
	assert.Contains(t, err.Error(), "The field length is invalid for Card Number.")
}

// TestCapture_FullAmount settles the full authorized amount
func TestCapture_FullAmount(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateAuthorization)
	p.RemoteID = "trans-123"
	client.QueueCreateTransaction(successTransaction("trans-123"), nil)

	err := o.Capture(context.Background(), p, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateCaptureCompleted, p.State)
	require.NotNil(t, p.CapturedAt)

	req := client.LastTransactionReq
	assert.Equal(t, gateway.TransactionTypePriorAuthCapture, req.Type)
	assert.Equal(t, "trans-123", req.RefTransactionID)
	assert.True(t, req.Amount.Equal(decimal.NewFromFloat(70)))
}

// TestCapture_PartialAmount adjusts the payment amount to what was captured
func TestCapture_PartialAmount(t *testing.T) {
	o, _, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateAuthorization)
	amount := decimal.NewFromFloat(50)

	err := o.Capture(context.Background(), p, &amount)

	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(amount))
}

// TestCapture_WrongState rejects payments without an open authorization
func TestCapture_WrongState(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateNew)

	err := o.Capture(context.Background(), p, nil)

	assert.True(t, domain.IsPreconditionError(err))
	assert.Equal(t, 0, client.CreateTransactionCalls)
}

// TestVoid_Success cancels the authorization
func TestVoid_Success(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateAuthorization)
	p.RemoteID = "trans-123"
	client.QueueCreateTransaction(successTransaction("trans-123"), nil)

	err := o.Void(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStateAuthorizationVoided, p.State)
	assert.Equal(t, gateway.TransactionTypeVoid, client.LastTransactionReq.Type)
	assert.Equal(t, "trans-123", client.LastTransactionReq.RefTransactionID)
}

// TestVoid_WrongState rejects captured payments
func TestVoid_WrongState(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateCaptureCompleted)

	err := o.Void(context.Background(), p)

	assert.True(t, domain.IsPreconditionError(err))
	assert.Equal(t, 0, client.CreateTransactionCalls)
}

// TestRefund_Accumulates tracks partial refunds until the balance is exhausted
func TestRefund_Accumulates(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateCaptureCompleted)
	p.RemoteID = "trans-123"

	first := decimal.NewFromFloat(40)
	require.NoError(t, o.Refund(context.Background(), p, &first))
	assert.Equal(t, domain.PaymentStateCapturePartiallyRefunded, p.State)
	assert.True(t, p.RefundedAmount.Equal(first))
	assert.True(t, p.Balance().Equal(decimal.NewFromFloat(30)))

	// The refund request carries the requested amount, not the payment total
	assert.True(t, client.LastTransactionReq.Amount.Equal(first))
	assert.Equal(t, gateway.TransactionTypeRefund, client.LastTransactionReq.Type)

	second := decimal.NewFromFloat(30)
	require.NoError(t, o.Refund(context.Background(), p, &second))
	assert.Equal(t, domain.PaymentStateCaptureRefunded, p.State)
	assert.True(t, p.Balance().IsZero())
}

// TestRefund_ExceedsBalance rejects refunds above the remaining balance
func TestRefund_ExceedsBalance(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateCaptureCompleted)

	amount := decimal.NewFromFloat(71)
	err := o.Refund(context.Background(), p, &amount)

	assert.True(t, domain.IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), "can't refund more than 70 USD")
	assert.Equal(t, 0, client.CreateTransactionCalls)
}

// TestRefund_NonPositiveAmount rejects zero and negative amounts
func TestRefund_NonPositiveAmount(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateCaptureCompleted)

	zero := decimal.Zero
	err := o.Refund(context.Background(), p, &zero)
	assert.True(t, domain.IsInvalidRequestError(err))

	negative := decimal.NewFromFloat(-5)
	err = o.Refund(context.Background(), p, &negative)
	assert.True(t, domain.IsInvalidRequestError(err))

	assert.Equal(t, 0, client.CreateTransactionCalls)
}

// TestRefund_SendsTruncatedCard keys the refund on stored last4 and expiry
func TestRefund_SendsTruncatedCard(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateCaptureCompleted)
	p.RemoteID = "trans-123"

	amount := decimal.NewFromFloat(10)
	require.NoError(t, o.Refund(context.Background(), p, &amount))

	req := client.LastTransactionReq
	require.NotNil(t, req.Card)
	assert.Equal(t, "1111", req.Card.Number)
	assert.Equal(t, "122027", req.Card.ExpirationDate)
	assert.Equal(t, "trans-123", req.RefTransactionID)
}

// TestRefund_WrongState rejects unrefundable states
func TestRefund_WrongState(t *testing.T) {
	o, client, _, _ := setupOrchestrator(t)
	for _, state := range []domain.PaymentState{
		domain.PaymentStateNew,
		domain.PaymentStateAuthorization,
		domain.PaymentStateAuthorizationVoided,
		domain.PaymentStateCaptureRefunded,
	} {
		p := testPayment(state)
		err := o.Refund(context.Background(), p, nil)
		assert.True(t, domain.IsPreconditionError(err), "state %s", state)
	}
	assert.Equal(t, 0, client.CreateTransactionCalls)
}

// TestAuthorize_InfrastructureError propagates transport failures untouched
func TestAuthorize_InfrastructureError(t *testing.T) {
	o, client, payments, _ := setupOrchestrator(t)
	p := testPayment(domain.PaymentStateNew)
	client.QueueCreateTransaction(nil, domain.NewInfrastructureError("failed to reach payment gateway", nil))

	err := o.Authorize(context.Background(), p, false)

	assert.True(t, domain.IsInfrastructureError(err))
	assert.Equal(t, domain.PaymentStateNew, p.State)
	assert.Equal(t, 0, payments.SaveCalls)
}
