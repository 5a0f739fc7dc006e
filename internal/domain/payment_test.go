package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestPaymentStatePredicates tests which operations each state permits
func TestPaymentStatePredicates(t *testing.T) {
	tests := []struct {
		state        PaymentState
		canAuthorize bool
		canCapture   bool
		canVoid      bool
		canRefund    bool
		terminal     bool
	}{
		{PaymentStateNew, true, false, false, false, false},
		{PaymentStateAuthorization, false, true, true, false, false},
		{PaymentStateAuthorizationVoided, false, false, false, false, true},
		{PaymentStateCaptureCompleted, false, false, false, true, false},
		{PaymentStateCapturePartiallyRefunded, false, false, false, true, false},
		{PaymentStateCaptureRefunded, false, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			p := &Payment{State: tt.state}
			assert.Equal(t, tt.canAuthorize, p.CanBeAuthorized())
			assert.Equal(t, tt.canCapture, p.CanBeCaptured())
			assert.Equal(t, tt.canVoid, p.CanBeVoided())
			assert.Equal(t, tt.canRefund, p.CanBeRefunded())
			assert.Equal(t, tt.terminal, p.IsTerminal())
		})
	}
}

// TestPaymentBalance tests the refundable balance calculation
func TestPaymentBalance(t *testing.T) {
	p := &Payment{
		Amount:         decimal.NewFromFloat(70),
		RefundedAmount: decimal.NewFromFloat(40),
	}
	assert.True(t, p.Balance().Equal(decimal.NewFromFloat(30)))

	p.RefundedAmount = decimal.NewFromFloat(70)
	assert.True(t, p.Balance().IsZero())
}

// TestPaymentMethodIsExpired tests expiry against the stored instant
func TestPaymentMethodIsExpired(t *testing.T) {
	expires := time.Date(2027, 12, 31, 23, 59, 59, 999999999, time.UTC)
	pm := &PaymentMethod{ExpiresAt: expires}

	assert.False(t, pm.IsExpired(time.Date(2027, 12, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, pm.IsExpired(expires.Add(-time.Nanosecond)))
	assert.True(t, pm.IsExpired(expires))
	assert.True(t, pm.IsExpired(expires.Add(time.Hour)))
}

// TestPaymentMethodIsExpired_ZeroTime treats an unset expiry as never expired
func TestPaymentMethodIsExpired_ZeroTime(t *testing.T) {
	pm := &PaymentMethod{}
	assert.False(t, pm.IsExpired(time.Now()))
}

// TestCustomerRemoteProfileIDs tests the per-provider profile id cache
func TestCustomerRemoteProfileIDs(t *testing.T) {
	c := &Customer{ID: "cust-1"}
	assert.Empty(t, c.RemoteProfileID("authnet_default"))

	c.SetRemoteProfileID("authnet_default", "12345")
	assert.Equal(t, "12345", c.RemoteProfileID("authnet_default"))
	assert.Empty(t, c.RemoteProfileID("authnet_other"))

	c.SetRemoteProfileID("authnet_default", "")
	assert.Empty(t, c.RemoteProfileID("authnet_default"))
}

// TestProviderKey tests the provider key format
func TestProviderKey(t *testing.T) {
	assert.Equal(t, "authnet_default", ProviderKey("default"))
	assert.Equal(t, "authnet_eu", ProviderKey("eu"))
}
