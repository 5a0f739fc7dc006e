package ports

import (
	"context"

	"github.com/commercekit/authnet-gateway/internal/domain"
)

// PaymentRepository persists payment records. Payments are created and
// destroyed by the host order system; this layer only loads and saves them.
type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	Save(ctx context.Context, payment *domain.Payment) error
}

// PaymentMethodRepository persists tokenized payment methods.
type PaymentMethodRepository interface {
	GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error)
	Save(ctx context.Context, method *domain.PaymentMethod) error
	Delete(ctx context.Context, method *domain.PaymentMethod) error
}

// CustomerRepository persists customers, including their cached remote
// profile-id associations.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Save(ctx context.Context, customer *domain.Customer) error
}
