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

// PaymentRepository implements ports.PaymentRepository
type PaymentRepository struct {
	pool    *pgxpool.Pool
	methods *PaymentMethodRepository
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

// NewPaymentRepository creates a new payment repository. The payment method
// repository is used to hydrate the stored method on load.
func NewPaymentRepository(pool *pgxpool.Pool, methods *PaymentMethodRepository) *PaymentRepository {
	return &PaymentRepository{pool: pool, methods: methods}
}

// GetByID retrieves a payment by its ID, including its payment method and
// the method's owner
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	const query = `
		SELECT id, state, amount, refunded_amount, currency, remote_id,
		       authorized_at, captured_at,
		       order_number, order_ip_address,
		       payment_method_id,
		       created_at, updated_at
		FROM payments
		WHERE id = $1`

	var (
		payment        domain.Payment
		state          string
		amount         pgtype.Numeric
		refundedAmount pgtype.Numeric
		remoteID       pgtype.Text
		authorizedAt   pgtype.Timestamptz
		capturedAt     pgtype.Timestamptz
		orderNumber    pgtype.Text
		orderIP        pgtype.Text
		methodID       pgtype.Text
	)
	row := r.pool.QueryRow(ctx, query, id)
	err := row.Scan(
		&payment.ID, &state, &amount, &refundedAmount, &payment.Currency, &remoteID,
		&authorizedAt, &capturedAt,
		&orderNumber, &orderIP,
		&methodID,
		&payment.CreatedAt, &payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("payment %s not found", id)
		}
		return nil, fmt.Errorf("get payment by id: %w", err)
	}

	payment.State = domain.PaymentState(state)
	payment.RemoteID = remoteID.String
	payment.AuthorizedAt = timestampPtr(authorizedAt)
	payment.CapturedAt = timestampPtr(capturedAt)
	payment.Order = domain.Order{Number: orderNumber.String, IPAddress: orderIP.String}

	if payment.Amount, err = numericToDecimal(amount); err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	if payment.RefundedAmount, err = numericToDecimal(refundedAmount); err != nil {
		return nil, fmt.Errorf("convert refunded amount: %w", err)
	}

	if methodID.Valid {
		method, err := r.methods.GetByID(ctx, methodID.String)
		if err != nil {
			return nil, fmt.Errorf("hydrate payment method: %w", err)
		}
		payment.Method = method
	}

	return &payment, nil
}

// Save upserts a payment record
func (r *PaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	amount, err := decimalToNumeric(payment.Amount)
	if err != nil {
		return fmt.Errorf("convert amount: %w", err)
	}
	refundedAmount, err := decimalToNumeric(payment.RefundedAmount)
	if err != nil {
		return fmt.Errorf("convert refunded amount: %w", err)
	}

	var methodID pgtype.Text
	if payment.Method != nil {
		methodID = nullText(payment.Method.ID)
	}

	const query = `
		INSERT INTO payments (
			id, state, amount, refunded_amount, currency, remote_id,
			authorized_at, captured_at,
			order_number, order_ip_address,
			payment_method_id,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			amount = EXCLUDED.amount,
			refunded_amount = EXCLUDED.refunded_amount,
			currency = EXCLUDED.currency,
			remote_id = EXCLUDED.remote_id,
			authorized_at = EXCLUDED.authorized_at,
			captured_at = EXCLUDED.captured_at,
			order_number = EXCLUDED.order_number,
			order_ip_address = EXCLUDED.order_ip_address,
			payment_method_id = EXCLUDED.payment_method_id,
			updated_at = now()`

	_, err = r.pool.Exec(ctx, query,
		payment.ID,
		string(payment.State),
		amount,
		refundedAmount,
		payment.Currency,
		nullText(payment.RemoteID),
		nullTimestamp(payment.AuthorizedAt),
		nullTimestamp(payment.CapturedAt),
		nullText(payment.Order.Number),
		nullText(payment.Order.IPAddress),
		methodID,
	)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}
