package authnet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/gateway"
	"github.com/commercekit/authnet-gateway/test/mocks"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		APILoginID:     "login",
		TransactionKey: "key",
		Endpoint:       server.URL,
	}, server.Client(), mocks.NewMockLogger())
	return client, server
}

// TestCreateTransaction_RequestShape verifies the envelope sent on the wire
func TestCreateTransaction_RequestShape(t *testing.T) {
	var captured map[string]json.RawMessage
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"transactionResponse":{"transId":"40000001"},"messages":{"resultCode":"Ok","message":[{"code":"I00001","text":"Successful."}]}}`))
	})

	resp, err := client.CreateTransaction(context.Background(), gateway.TransactionRequest{
		Type:   gateway.TransactionTypeAuthOnly,
		Amount: decimal.RequireFromString("70.10"),
		Profile: &gateway.ProfileRef{
			CustomerProfileID: "9000001",
			PaymentProfileID:  "8000001",
		},
		InvoiceNumber: "order-77",
		CustomerIP:    "203.0.113.9",
	})

	require.NoError(t, err)
	assert.Equal(t, "40000001", resp.TransactionID)
	assert.Equal(t, gateway.ResultCodeOk, resp.ResultCode)

	raw, ok := captured["createTransactionRequest"]
	require.True(t, ok, "single-key envelope")

	var req createTransactionRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	assert.Equal(t, "login", req.MerchantAuthentication.Name)
	assert.Equal(t, "authOnlyTransaction", req.TransactionRequest.TransactionType)
	assert.Equal(t, "70.10", req.TransactionRequest.Amount)
	assert.Equal(t, "9000001", req.TransactionRequest.Profile.CustomerProfileID)
	assert.Equal(t, "8000001", req.TransactionRequest.Profile.PaymentProfile.PaymentProfileID)
	assert.Equal(t, "order-77", req.TransactionRequest.Order.InvoiceNumber)
	assert.Equal(t, "203.0.113.9", req.TransactionRequest.CustomerIP)
}

// TestCreateTransaction_DeclineErrors maps the transaction error list
func TestCreateTransaction_DeclineErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"transactionResponse":{"transId":"0","errors":[{"errorCode":"2","errorText":"This transaction has been declined."}]},
			"messages":{"resultCode":"Error","message":[{"code":"E00027","text":"The transaction was unsuccessful."}]}
		}`))
	})

	resp, err := client.CreateTransaction(context.Background(), gateway.TransactionRequest{
		Type:   gateway.TransactionTypeAuthCapture,
		Amount: decimal.NewFromInt(10),
		Card:   &gateway.Card{Number: "4111111111111111", ExpirationDate: "122027"},
	})

	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "2", resp.Errors[0].Code)

	c := gateway.Classify(resp)
	assert.Equal(t, gateway.OutcomeHardDecline, c.Outcome)
}

// TestSend_StripsBOM handles the UTF-8 BOM the endpoint prefixes
func TestSend_StripsBOM(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(append([]byte("\xef\xbb\xbf"),
			[]byte(`{"messages":{"resultCode":"Ok","message":[{"code":"I00001","text":"Successful."}]}}`)...))
	})

	resp, err := client.AuthenticateTest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, gateway.ResultCodeOk, resp.ResultCode)
	assert.Equal(t, "I00001", resp.LeadingMessage().Code)
}

// TestSend_TransportError surfaces unreachable endpoints as infrastructure
// errors
func TestSend_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // dead endpoint

	client := NewClient(Config{Endpoint: server.URL}, http.DefaultClient, mocks.NewMockLogger())
	_, err := client.AuthenticateTest(context.Background())

	assert.True(t, domain.IsInfrastructureError(err))
}

// TestSend_NonOKStatus treats unexpected HTTP statuses as infrastructure
// errors
func TestSend_NonOKStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.AuthenticateTest(context.Background())

	assert.True(t, domain.IsInfrastructureError(err))
	assert.Contains(t, err.Error(), "502")
}

// TestSend_MalformedBody treats undecodable payloads as infrastructure errors
func TestSend_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.AuthenticateTest(context.Background())

	assert.True(t, domain.IsInfrastructureError(err))
	assert.Contains(t, err.Error(), "malformed gateway response")
}

// TestCreateCustomerProfile_MapsIDs lifts the profile ids out of the payload
func TestCreateCustomerProfile_MapsIDs(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"customerProfileId":"9000001",
			"customerPaymentProfileIdList":["8000001"],
			"messages":{"resultCode":"Ok","message":[{"code":"I00001","text":"Successful."}]}
		}`))
	})

	resp, err := client.CreateCustomerProfile(context.Background(), gateway.CustomerProfile{
		MerchantCustomerID: "user-42",
		Email:              "payer@example.com",
		PaymentProfile: gateway.PaymentProfile{
			Card: gateway.Card{Number: "4111111111111111", ExpirationDate: "2027-12"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "9000001", resp.CustomerProfileID)
	assert.Equal(t, "8000001", resp.PaymentProfileID)
}

// TestCreateCustomerPaymentProfile_MapsIDs lifts the payment profile id
func TestCreateCustomerPaymentProfile_MapsIDs(t *testing.T) {
	var captured map[string]json.RawMessage
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{
			"customerProfileId":"9000001",
			"customerPaymentProfileId":"8000002",
			"messages":{"resultCode":"Ok","message":[{"code":"I00001","text":"Successful."}]}
		}`))
	})

	resp, err := client.CreateCustomerPaymentProfile(context.Background(), "9000001", gateway.PaymentProfile{
		Card: gateway.Card{Number: "4111111111111111", ExpirationDate: "2027-12"},
	})

	require.NoError(t, err)
	assert.Equal(t, "8000002", resp.PaymentProfileID)

	_, ok := captured["createCustomerPaymentProfileRequest"]
	assert.True(t, ok)
}

// TestDeleteCustomerPaymentProfile_StaleReference passes the not-found
// message through for classification
func TestDeleteCustomerPaymentProfile_StaleReference(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages":{"resultCode":"Error","message":[{"code":"E00040","text":"The record cannot be found."}]}}`))
	})

	resp, err := client.DeleteCustomerPaymentProfile(context.Background(), "9000001", "8000001")

	require.NoError(t, err)
	c := gateway.Classify(resp)
	assert.Equal(t, gateway.OutcomeStaleReference, c.Outcome)
}
