package domain

import (
	"time"
)

// Address is the billing address sent to the gateway when tokenizing a card.
type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentMethod represents a tokenized card stored on the gateway.
// RemoteID must always correspond to a payment-profile id known to the gateway
// under the owner's customer-profile id.
type PaymentMethod struct {
	ID string `json:"id"`

	// RemoteID is the gateway payment-profile id (the token).
	RemoteID string `json:"remote_id"`

	CardType CardType `json:"card_type"`
	Last4    string   `json:"last_four"`
	ExpMonth int      `json:"exp_month"`
	ExpYear  int      `json:"exp_year"`

	// ExpiresAt is the last valid instant of the expiration month.
	ExpiresAt time.Time `json:"expires_at"`

	Owner          *Customer `json:"owner"`
	BillingAddress Address   `json:"billing_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired reports whether the card is expired at the given instant.
func (pm *PaymentMethod) IsExpired(at time.Time) bool {
	if pm.ExpiresAt.IsZero() {
		return false
	}
	return !at.Before(pm.ExpiresAt)
}

// DisplayName returns a human-readable label for the stored card.
func (pm *PaymentMethod) DisplayName() string {
	brand := "Card"
	if pm.CardType != "" {
		brand = string(pm.CardType)
	}
	return brand + " •••• " + pm.Last4
}
