package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
)

// CustomerRepository implements ports.CustomerRepository
type CustomerRepository struct {
	pool *pgxpool.Pool
}

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetByID retrieves a customer by its ID
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
		SELECT id, email, external_id, authenticated, remote_profile_ids
		FROM customers
		WHERE id = $1`

	var (
		customer    domain.Customer
		email       pgtype.Text
		externalID  pgtype.Text
		profileJSON []byte
	)
	row := r.pool.QueryRow(ctx, query, id)
	if err := row.Scan(&customer.ID, &email, &externalID, &customer.Authenticated, &profileJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("customer %s not found", id)
		}
		return nil, fmt.Errorf("get customer by id: %w", err)
	}
	customer.Email = email.String
	customer.ExternalID = externalID.String

	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &customer.RemoteProfileIDs); err != nil {
			return nil, fmt.Errorf("unmarshal remote profile ids: %w", err)
		}
	}

	return &customer, nil
}

// Save upserts a customer record
func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	profileJSON, err := json.Marshal(customer.RemoteProfileIDs)
	if err != nil {
		return fmt.Errorf("marshal remote profile ids: %w", err)
	}
	if customer.RemoteProfileIDs == nil {
		profileJSON = []byte("{}")
	}

	const query = `
		INSERT INTO customers (id, email, external_id, authenticated, remote_profile_ids, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			external_id = EXCLUDED.external_id,
			authenticated = EXCLUDED.authenticated,
			remote_profile_ids = EXCLUDED.remote_profile_ids,
			updated_at = now()`

	_, err = r.pool.Exec(ctx, query,
		customer.ID,
		nullText(customer.Email),
		nullText(customer.ExternalID),
		customer.Authenticated,
		profileJSON,
	)
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}
