package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercekit/authnet-gateway/internal/domain"
	"github.com/commercekit/authnet-gateway/internal/domain/ports"
)

// PaymentMethodRepository implements ports.PaymentMethodRepository
type PaymentMethodRepository struct {
	pool      *pgxpool.Pool
	customers *CustomerRepository
}

var _ ports.PaymentMethodRepository = (*PaymentMethodRepository)(nil)

// NewPaymentMethodRepository creates a new payment method repository. The
// customer repository is used to hydrate the owner on load.
func NewPaymentMethodRepository(pool *pgxpool.Pool, customers *CustomerRepository) *PaymentMethodRepository {
	return &PaymentMethodRepository{pool: pool, customers: customers}
}

// GetByID retrieves a payment method by its ID, including its owner
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	const query = `
		SELECT id, remote_id, card_type, last4, exp_month, exp_year, expires_at,
		       owner_id,
		       billing_first_name, billing_last_name, billing_company,
		       billing_line1, billing_line2, billing_city, billing_state,
		       billing_postal_code, billing_country,
		       created_at, updated_at
		FROM payment_methods
		WHERE id = $1`

	var (
		method    domain.PaymentMethod
		cardType  string
		expiresAt pgtype.Timestamptz
		ownerID   pgtype.Text
		addr      [9]pgtype.Text
	)
	row := r.pool.QueryRow(ctx, query, id)
	err := row.Scan(
		&method.ID, &method.RemoteID, &cardType, &method.Last4,
		&method.ExpMonth, &method.ExpYear, &expiresAt,
		&ownerID,
		&addr[0], &addr[1], &addr[2], &addr[3], &addr[4],
		&addr[5], &addr[6], &addr[7], &addr[8],
		&method.CreatedAt, &method.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("payment method %s not found", id)
		}
		return nil, fmt.Errorf("get payment method by id: %w", err)
	}

	method.CardType = domain.CardType(cardType)
	if expiresAt.Valid {
		method.ExpiresAt = expiresAt.Time
	}
	method.BillingAddress = domain.Address{
		FirstName:  addr[0].String,
		LastName:   addr[1].String,
		Company:    addr[2].String,
		Line1:      addr[3].String,
		Line2:      addr[4].String,
		City:       addr[5].String,
		State:      addr[6].String,
		PostalCode: addr[7].String,
		Country:    addr[8].String,
	}

	if ownerID.Valid {
		owner, err := r.customers.GetByID(ctx, ownerID.String)
		if err != nil {
			return nil, fmt.Errorf("hydrate payment method owner: %w", err)
		}
		method.Owner = owner
	}

	return &method, nil
}

// Save upserts a payment method record
func (r *PaymentMethodRepository) Save(ctx context.Context, method *domain.PaymentMethod) error {
	var ownerID pgtype.Text
	if method.Owner != nil {
		ownerID = nullText(method.Owner.ID)
	}

	const query = `
		INSERT INTO payment_methods (
			id, remote_id, card_type, last4, exp_month, exp_year, expires_at,
			owner_id,
			billing_first_name, billing_last_name, billing_company,
			billing_line1, billing_line2, billing_city, billing_state,
			billing_postal_code, billing_country,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now())
		ON CONFLICT (id) DO UPDATE SET
			remote_id = EXCLUDED.remote_id,
			card_type = EXCLUDED.card_type,
			last4 = EXCLUDED.last4,
			exp_month = EXCLUDED.exp_month,
			exp_year = EXCLUDED.exp_year,
			expires_at = EXCLUDED.expires_at,
			owner_id = EXCLUDED.owner_id,
			billing_first_name = EXCLUDED.billing_first_name,
			billing_last_name = EXCLUDED.billing_last_name,
			billing_company = EXCLUDED.billing_company,
			billing_line1 = EXCLUDED.billing_line1,
			billing_line2 = EXCLUDED.billing_line2,
			billing_city = EXCLUDED.billing_city,
			billing_state = EXCLUDED.billing_state,
			billing_postal_code = EXCLUDED.billing_postal_code,
			billing_country = EXCLUDED.billing_country,
			updated_at = now()`

	addr := method.BillingAddress
	_, err := r.pool.Exec(ctx, query,
		method.ID,
		nullText(method.RemoteID),
		string(method.CardType),
		method.Last4,
		method.ExpMonth,
		method.ExpYear,
		nullTimestamp(timeOrNil(method.ExpiresAt)),
		ownerID,
		nullText(addr.FirstName), nullText(addr.LastName), nullText(addr.Company),
		nullText(addr.Line1), nullText(addr.Line2), nullText(addr.City),
		nullText(addr.State), nullText(addr.PostalCode), nullText(addr.Country),
	)
	if err != nil {
		return fmt.Errorf("save payment method: %w", err)
	}
	return nil
}

// Delete removes a payment method record
func (r *PaymentMethodRepository) Delete(ctx context.Context, method *domain.PaymentMethod) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1`, method.ID); err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	return nil
}
