package mocks

import (
	"context"
	"sync"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository
type MockPaymentRepository struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment

	SaveErr error

	SaveCalls  int
	LastSaved  *domain.Payment
	SavedState []domain.PaymentState
}

var _ ports.PaymentRepository = (*MockPaymentRepository)(nil)

// NewMockPaymentRepository creates a new mock payment repository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{payments: make(map[string]*domain.Payment)}
}

// Put seeds a payment record
func (m *MockPaymentRepository) Put(p *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
}

// GetByID implements ports.PaymentRepository
func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, domain.NewNotFoundError("payment %s not found", id)
	}
	return p, nil
}

// Save implements ports.PaymentRepository
func (m *MockPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	m.LastSaved = payment
	m.SavedState = append(m.SavedState, payment.State)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.payments[payment.ID] = payment
	return nil
}

// MockPaymentMethodRepository is an in-memory implementation of
// PaymentMethodRepository
type MockPaymentMethodRepository struct {
	mu      sync.Mutex
	methods map[string]*domain.PaymentMethod

	SaveErr   error
	DeleteErr error

	SaveCalls   int
	DeleteCalls int
	LastSaved   *domain.PaymentMethod
	LastDeleted *domain.PaymentMethod
}

var _ ports.PaymentMethodRepository = (*MockPaymentMethodRepository)(nil)

// NewMockPaymentMethodRepository creates a new mock payment method repository
func NewMockPaymentMethodRepository() *MockPaymentMethodRepository {
	return &MockPaymentMethodRepository{methods: make(map[string]*domain.PaymentMethod)}
}

// Put seeds a payment method record
func (m *MockPaymentMethodRepository) Put(pm *domain.PaymentMethod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.methods[pm.ID] = pm
}

// Has reports whether a record exists
func (m *MockPaymentMethodRepository) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.methods[id]
	return ok
}

// GetByID implements ports.PaymentMethodRepository
func (m *MockPaymentMethodRepository) GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pm, ok := m.methods[id]
	if !ok {
		return nil, domain.NewNotFoundError("payment method %s not found", id)
	}
	return pm, nil
}

// Save implements ports.PaymentMethodRepository
func (m *MockPaymentMethodRepository) Save(ctx context.Context, method *domain.PaymentMethod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	m.LastSaved = method
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.methods[method.ID] = method
	return nil
}

// Delete implements ports.PaymentMethodRepository
func (m *MockPaymentMethodRepository) Delete(ctx context.Context, method *domain.PaymentMethod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	m.LastDeleted = method
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.methods, method.ID)
	return nil
}

// MockCustomerRepository is an in-memory implementation of CustomerRepository
type MockCustomerRepository struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer

	SaveErr error

	SaveCalls int
	LastSaved *domain.Customer
}

var _ ports.CustomerRepository = (*MockCustomerRepository)(nil)

// NewMockCustomerRepository creates a new mock customer repository
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]*domain.Customer)}
}

// Put seeds a customer record
func (m *MockCustomerRepository) Put(c *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = c
}

// GetByID implements ports.CustomerRepository
func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.NewNotFoundError("customer %s not found", id)
	}
	return c, nil
}

// Save implements ports.CustomerRepository
func (m *MockCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	m.LastSaved = customer
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.customers[customer.ID] = customer
	return nil
}
