package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/gateway"
	"github.com/commercekit/authnet-gateway/pkg/timeutil"
	"github.com/commercekit/authnet-gateway/test/mocks"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setupResolver(t *testing.T) (*Resolver, *mocks.MockGatewayClient, *mocks.MockCustomerRepository) {
	t.Helper()
	client := mocks.NewMockGatewayClient()
	customers := mocks.NewMockCustomerRepository()
	r := NewResolver(client, customers, "authnet_default", timeutil.Fixed(testNow), mocks.NewMockLogger())
	return r, client, customers
}

func testCustomer(cachedProfileID string) *domain.Customer {
	c := &domain.Customer{
		ID:            "cust-1",
		Email:         "payer@example.com",
		ExternalID:    "user-42",
		Authenticated: true,
	}
	if cachedProfileID != "" {
		c.SetRemoteProfileID("authnet_default", cachedProfileID)
	}
	return c
}

func testMethod() *domain.PaymentMethod {
	return &domain.PaymentMethod{
		ID: "pm-1",
		BillingAddress: domain.Address{
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Line1:      "1 Analytical Way",
			Line2:      "Suite 7",
			City:       "London",
			PostalCode: "EC1",
			Country:    "GB",
		},
	}
}

func testCard() domain.CardInput {
	return domain.CardInput{Number: "4111111111111111", ExpMonth: 12, ExpYear: 2027, SecurityCode: "123"}
}

func profileResponse(customerProfileID, paymentProfileID string) *gateway.Response {
	return &gateway.Response{
		ResultCode:        gateway.ResultCodeOk,
		Messages:          []gateway.Message{{Code: "I00001", Text: "Successful."}},
		CustomerProfileID: customerProfileID,
		PaymentProfileID:  paymentProfileID,
	}
}

func duplicateResponse(text string) *gateway.Response {
	return &gateway.Response{
		ResultCode: gateway.ResultCodeError,
		Messages:   []gateway.Message{{Code: "E00039", Text: text}},
	}
}

func staleResponse() *gateway.Response {
	return &gateway.Response{
		ResultCode: gateway.ResultCodeError,
		Messages:   []gateway.Message{{Code: "E00040", Text: "The record cannot be found."}},
	}
}

// TestResolve_CachedProfile attaches the payment profile under the cached
// customer-profile id
func TestResolve_CachedProfile(t *testing.T) {
	r, client, _ := setupResolver(t)
	client.QueueCreateCustomerPaymentProfile(profileResponse("", "8000001"), nil)

	token, err := r.Resolve(context.Background(), testCustomer("9000001"), testMethod(), testCard())

	require.NoError(t, err)
	assert.Equal(t, "8000001", token)
	assert.Equal(t, "9000001", client.LastCustomerProfileID)
	assert.Equal(t, 0, client.CreateCustomerProfileCalls)

	// Billing address lines are collapsed into the single gateway field
	assert.Equal(t, "1 Analytical Way Suite 7", client.LastPaymentProfile.BillTo.Address)
	assert.Equal(t, "2027-12", client.LastPaymentProfile.Card.ExpirationDate)
}

// TestResolve_NoCachedProfile creates the customer profile with the payment
// profile attached and caches the new id
func TestResolve_NoCachedProfile(t *testing.T) {
	r, client, customers := setupResolver(t)
	customer := testCustomer("")
	customers.Put(customer)
	client.QueueCreateCustomerProfile(profileResponse("9000002", "8000002"), nil)

	token, err := r.Resolve(context.Background(), customer, testMethod(), testCard())

	require.NoError(t, err)
	assert.Equal(t, "8000002", token)
	assert.Equal(t, "9000002", customer.RemoteProfileID("authnet_default"))
	assert.Equal(t, 1, customers.SaveCalls)
	assert.Equal(t, "user-42", client.LastCustomerProfile.MerchantCustomerID)
}

// TestResolve_GuestMerchantCustomerID synthesizes a unique id for
// unauthenticated customers
func TestResolve_GuestMerchantCustomerID(t *testing.T) {
	r, client, customers := setupResolver(t)
	customer := testCustomer("")
	customer.Authenticated = false
	customers.Put(customer)
	client.QueueCreateCustomerProfile(profileResponse("9000003", "8000003"), nil)

	_, err := r.Resolve(context.Background(), customer, testMethod(), testCard())

	require.NoError(t, err)
	assert.Equal(t, "cust-1_1773144000", client.LastCustomerProfile.MerchantCustomerID)
}

// TestResolve_DuplicatePaymentProfile_PayloadID reuses the id echoed in the
// response payload
func TestResolve_DuplicatePaymentProfile_PayloadID(t *testing.T) {
	r, client, _ := setupResolver(t)
	dup := duplicateResponse("A duplicate customer payment profile already exists.")
	dup.PaymentProfileID = "8000004"
	client.QueueCreateCustomerPaymentProfile(dup, nil)

	token, err := r.Resolve(context.Background(), testCustomer("9000001"), testMethod(), testCard())

	require.NoError(t, err)
	assert.Equal(t, "8000004", token)
}

// TestResolve_DuplicatePaymentProfile_TextID falls back to extracting the id
// from the message text
func TestResolve_DuplicatePaymentProfile_TextID(t *testing.T) {
	r, client, _ := setupResolver(t)
	client.QueueCreateCustomerPaymentProfile(
		duplicateResponse("A duplicate record with ID 554433 already exists."), nil)

	token, err := r.Resolve(context.Background(), testCustomer("9000001"), testMethod(), testCard())

	require.NoError(t, err)
	assert.Equal(t, "554433", token)
}

// TestResolve_DuplicatePaymentProfile_NoID fails hard when no id is
// recoverable
func TestResolve_DuplicatePaymentProfile_NoID(t *testing.T) {
	r, client, _ := setupResolver(t)
	client.QueueCreateCustomerPaymentProfile(
		duplicateResponse("A duplicate customer payment profile already exists."), nil)

	_, err := r.Resolve(context.Background(), testCustomer("9000001"), testMethod(), testCard())

	assert.True(t, domain.IsHardDeclineError(err))
}

// TestResolve_StaleCachedProfile clears the dead id, persists the repair, and
// converges on a fresh customer profile
func TestResolve_StaleCachedProfile(t *testing.T) {
	r, client, customers := setupResolver(t)
	customer := testCustomer("9000001")
	customers.Put(customer)
	client.QueueCreateCustomerPaymentProfile(staleResponse(), nil)
	client.QueueCreateCustomerProfile(profileResponse("9000005", "8000005"), nil)

	token, err := r.Resolve(context.Background(), customer, testMethod(), testCard())

	require.NoError(t, err)
	assert.Equal(t, "8000005", token)
	assert.Equal(t, "9000005", customer.RemoteProfileID("authnet_default"))
	// Saved twice: once clearing the stale id, once caching the new one
	assert.Equal(t, 2, customers.SaveCalls)
}

// TestResolve_DuplicateCustomerProfile extracts the existing customer id from
// the message text, retries the payment profile under it, and caches the id
func TestResolve_DuplicateCustomerProfile(t *testing.T) {
	r, client, customers := setupResolver(t)
	customer := testCustomer("")
	customers.Put(customer)
	client.QueueCreateCustomerProfile(
		duplicateResponse("A duplicate record with ID 554433 already exists."), nil)
	client.QueueCreateCustomerPaymentProfile(profileResponse("554433", "8000006"), nil)

	token, err := r.Resolve(context.Background(), customer, testMethod(), testCard())

	require.NoError(t, err)
	assert.Equal(t, "8000006", token)
	assert.Equal(t, "554433", client.LastCustomerProfileID)
	assert.Equal(t, "554433", customer.RemoteProfileID("authnet_default"))
}

// TestResolve_DuplicateCustomerThenDuplicatePayment recovers the existing
// payment profile on the retry as well
func TestResolve_DuplicateCustomerThenDuplicatePayment(t *testing.T) {
	r, client, customers := setupResolver(t)
	customer := testCustomer("")
	customers.Put(customer)
	client.QueueCreateCustomerProfile(
		duplicateResponse("A duplicate record with ID 554433 already exists."), nil)
	client.QueueCreateCustomerPaymentProfile(
		duplicateResponse("A duplicate record with ID 8000007 already exists."), nil)

	token, err := r.Resolve(context.Background(), customer, testMethod(), testCard())

	require.NoError(t, err)
	assert.Equal(t, "8000007", token)
	assert.Equal(t, "554433", customer.RemoteProfileID("authnet_default"))
}

// TestResolve_DuplicateCustomerProfile_NoExtractableID fails hard when the
// gateway text carries no id
func TestResolve_DuplicateCustomerProfile_NoExtractableID(t *testing.T) {
	r, client, customers := setupResolver(t)
	customer := testCustomer("")
	customers.Put(customer)
	client.QueueCreateCustomerProfile(
		duplicateResponse("A duplicate record already exists."), nil)

	_, err := r.Resolve(context.Background(), customer, testMethod(), testCard())

	assert.True(t, domain.IsHardDeclineError(err))
	assert.Equal(t, 0, client.CreateCustomerPaymentProfileCalls)
}

// TestResolve_CustomerProfileHardFailure surfaces unclassifiable failures as
// hard declines with the gateway text preserved
func TestResolve_CustomerProfileHardFailure(t *testing.T) {
	r, client, customers := setupResolver(t)
	customer := testCustomer("")
	customers.Put(customer)
	client.QueueCreateCustomerProfile(&gateway.Response{
		ResultCode: gateway.ResultCodeError,
		Messages:   []gateway.Message{{Code: "E00013", Text: "Customer Profile ID is invalid."}},
	}, nil)

	_, err := r.Resolve(context.Background(), customer, testMethod(), testCard())

	require.Error(t, err)
	assert.True(t, domain.IsHardDeclineError(err))
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "E00013", domainErr.GatewayCode)
}
