// Package mocks provides hand-rolled test doubles for the service ports.
package mocks

import (
	"context"
	"sync"

	"github.com/commercekit/authnet-gateway/internal/domain/ports"
	"github.com/commercekit/authnet-gateway/internal/gateway"
)

// MockGatewayClient is a mock implementation of GatewayClient for testing.
// Each operation pops queued responses in order; the last queued response is
// repeated once the queue is drained.
type MockGatewayClient struct {
	mu sync.Mutex

	authTestResponses          []stubResponse
	createTransactionResponses []stubResponse
	createCustomerResponses    []stubResponse
	createPaymentResponses     []stubResponse
	deletePaymentResponses     []stubResponse

	// Call tracking
	AuthenticateTestCalls             int
	CreateTransactionCalls            int
	CreateCustomerProfileCalls        int
	CreateCustomerPaymentProfileCalls int
	DeleteCustomerPaymentProfileCalls int

	// Last request received
	LastTransactionReq      gateway.TransactionRequest
	LastCustomerProfile     gateway.CustomerProfile
	LastPaymentProfile      gateway.PaymentProfile
	LastCustomerProfileID   string
	LastPaymentProfileID    string
	TransactionRequests     []gateway.TransactionRequest
	CustomerProfileRequests []gateway.CustomerProfile
}

type stubResponse struct {
	resp *gateway.Response
	err  error
}

var _ ports.GatewayClient = (*MockGatewayClient)(nil)

// NewMockGatewayClient creates a new mock gateway client
func NewMockGatewayClient() *MockGatewayClient {
	return &MockGatewayClient{}
}

// QueueAuthenticateTest queues a response for AuthenticateTest
func (m *MockGatewayClient) QueueAuthenticateTest(resp *gateway.Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authTestResponses = append(m.authTestResponses, stubResponse{resp, err})
}

// QueueCreateTransaction queues a response for CreateTransaction
func (m *MockGatewayClient) QueueCreateTransaction(resp *gateway.Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createTransactionResponses = append(m.createTransactionResponses, stubResponse{resp, err})
}

// QueueCreateCustomerProfile queues a response for CreateCustomerProfile
func (m *MockGatewayClient) QueueCreateCustomerProfile(resp *gateway.Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCustomerResponses = append(m.createCustomerResponses, stubResponse{resp, err})
}

// QueueCreateCustomerPaymentProfile queues a response for CreateCustomerPaymentProfile
func (m *MockGatewayClient) QueueCreateCustomerPaymentProfile(resp *gateway.Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createPaymentResponses = append(m.createPaymentResponses, stubResponse{resp, err})
}

// QueueDeleteCustomerPaymentProfile queues a response for DeleteCustomerPaymentProfile
func (m *MockGatewayClient) QueueDeleteCustomerPaymentProfile(resp *gateway.Response, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletePaymentResponses = append(m.deletePaymentResponses, stubResponse{resp, err})
}

func pop(queue *[]stubResponse) stubResponse {
	if len(*queue) == 0 {
		return stubResponse{resp: &gateway.Response{ResultCode: gateway.ResultCodeOk}}
	}
	head := (*queue)[0]
	if len(*queue) > 1 {
		*queue = (*queue)[1:]
	}
	return head
}

// AuthenticateTest implements ports.GatewayClient
func (m *MockGatewayClient) AuthenticateTest(ctx context.Context) (*gateway.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuthenticateTestCalls++
	s := pop(&m.authTestResponses)
	return s.resp, s.err
}

// CreateTransaction implements ports.GatewayClient
func (m *MockGatewayClient) CreateTransaction(ctx context.Context, req gateway.TransactionRequest) (*gateway.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateTransactionCalls++
	m.LastTransactionReq = req
	m.TransactionRequests = append(m.TransactionRequests, req)
	s := pop(&m.createTransactionResponses)
	return s.resp, s.err
}

// CreateCustomerProfile implements ports.GatewayClient
func (m *MockGatewayClient) CreateCustomerProfile(ctx context.Context, profile gateway.CustomerProfile) (*gateway.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCustomerProfileCalls++
	m.LastCustomerProfile = profile
	m.CustomerProfileRequests = append(m.CustomerProfileRequests, profile)
	s := pop(&m.createCustomerResponses)
	return s.resp, s.err
}

// CreateCustomerPaymentProfile implements ports.GatewayClient
func (m *MockGatewayClient) CreateCustomerPaymentProfile(ctx context.Context, customerProfileID string, profile gateway.PaymentProfile) (*gateway.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCustomerPaymentProfileCalls++
	m.LastCustomerProfileID = customerProfileID
	m.LastPaymentProfile = profile
	s := pop(&m.createPaymentResponses)
	return s.resp, s.err
}

// DeleteCustomerPaymentProfile implements ports.GatewayClient
func (m *MockGatewayClient) DeleteCustomerPaymentProfile(ctx context.Context, customerProfileID, paymentProfileID string) (*gateway.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCustomerPaymentProfileCalls++
	m.LastCustomerProfileID = customerProfileID
	m.LastPaymentProfileID = paymentProfileID
	s := pop(&m.deletePaymentResponses)
	return s.resp, s.err
}
