// Package gateway defines the wire-neutral request/response model for the
// Authorize.Net CIM API, plus the single response classifier every call site
// keys off. Transport lives in internal/adapters/authnet.
package gateway

import (
	"github.com/shopspring/decimal"
)

// TransactionType is the remote transaction kind.
type TransactionType string

const (
	TransactionTypeAuthOnly         TransactionType = "authOnlyTransaction"
	TransactionTypeAuthCapture      TransactionType = "authCaptureTransaction"
	TransactionTypePriorAuthCapture TransactionType = "priorAuthCaptureTransaction"
	TransactionTypeVoid             TransactionType = "voidTransaction"
	TransactionTypeRefund           TransactionType = "refundTransaction"
)

// ResultCode is the gateway's top-level result indicator.
type ResultCode string

const (
	ResultCodeOk    ResultCode = "Ok"
	ResultCodeError ResultCode = "Error"
)

// Message is one entry of the gateway's message list (e.g. E00039).
type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// TransactionError is one entry of a transaction response's error list.
// A non-empty error list means the processor declined the transaction.
type TransactionError struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Response is the normalized gateway response. Operation-specific payload
// fields are zero-valued when not applicable.
type Response struct {
	ResultCode ResultCode         `json:"result_code"`
	Messages   []Message          `json:"messages"`
	Errors     []TransactionError `json:"errors"`

	// createTransaction payload.
	TransactionID string `json:"transaction_id"`
	AuthCode      string `json:"auth_code"`
	AVSResultCode string `json:"avs_result_code"`

	// Profile operation payload. PaymentProfileID is also populated on
	// duplicate-profile responses when the gateway echoes the existing id.
	CustomerProfileID string `json:"customer_profile_id"`
	PaymentProfileID  string `json:"payment_profile_id"`
}

// LeadingMessage returns the first message, or a zero Message when the list
// is empty.
func (r *Response) LeadingMessage() Message {
	if len(r.Messages) == 0 {
		return Message{}
	}
	return r.Messages[0]
}

// ProfileRef identifies a stored payment profile for profile-based charges.
type ProfileRef struct {
	CustomerProfileID string `json:"customer_profile_id"`
	PaymentProfileID  string `json:"payment_profile_id"`
}

// Card is raw or truncated card data sent with a request. Refunds against a
// settled transaction send the stored truncated form (last4 + expiry).
type Card struct {
	Number         string `json:"number"`
	ExpirationDate string `json:"expiration_date"`
	Code           string `json:"code,omitempty"`
}

// BillTo is the billing address attached to a payment profile.
type BillTo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// PaymentProfile is a tokenized card record scoped under a customer profile.
type PaymentProfile struct {
	CustomerType string `json:"customer_type"`
	BillTo       BillTo `json:"bill_to"`
	Card         Card   `json:"card"`
}

// CustomerProfile is a gateway-side payer record with one attached payment
// profile.
type CustomerProfile struct {
	MerchantCustomerID string         `json:"merchant_customer_id"`
	Email              string         `json:"email"`
	PaymentProfile     PaymentProfile `json:"payment_profile"`
}

// TransactionRequest is the ephemeral per-call charge request. Exactly one of
// Profile or Card identifies the payment source.
type TransactionRequest struct {
	Type             TransactionType `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	RefTransactionID string          `json:"ref_transaction_id,omitempty"`
	Profile          *ProfileRef     `json:"profile,omitempty"`
	Card             *Card           `json:"card,omitempty"`
	InvoiceNumber    string          `json:"invoice_number,omitempty"`
	CustomerIP       string          `json:"customer_ip,omitempty"`
}
