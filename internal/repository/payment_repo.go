package repository

import (
	"context"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CreatePaymentInput struct {
	OrderRef        string
	Amount          int
	Currency        string
	DurationMinutes int
	UserEmail       *string
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, order_ref, payment_id, signature, amount, currency, duration_min, user_email, status, session_id, created_at`

func (r *PaymentRepository) Create(ctx context.Context, input CreatePaymentInput) (*models.PaymentRecord, error) {
	query := `
		INSERT INTO payments (order_ref, amount, currency, duration_min, user_email, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING ` + paymentColumns

	return r.scanPayment(r.db.QueryRow(
		ctx,
		query,
		input.OrderRef,
		input.Amount,
		input.Currency,
		input.DurationMinutes,
		input.UserEmail,
	))
}

func (r *PaymentRepository) GetByOrderRef(ctx context.Context, orderRef string) (*models.PaymentRecord, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE order_ref = $1
	`
	return r.scanPayment(r.db.QueryRow(ctx, query, orderRef))
}

// Finalize records the verification outcome for a pending order. The status
// argument must be 'success' or 'failed'.
func (r *PaymentRepository) Finalize(
	ctx context.Context,
	orderRef string,
	paymentID string,
	signature string,
	status string,
) (*models.PaymentRecord, error) {
	query := `
		UPDATE payments
		SET payment_id = $2, signature = $3, status = $4
		WHERE order_ref = $1
		RETURNING ` + paymentColumns

	return r.scanPayment(r.db.QueryRow(ctx, query, orderRef, paymentID, signature, status))
}

func (r *PaymentRepository) LinkSession(ctx context.Context, orderRef string, sessionID int64) error {
	query := `
		UPDATE payments
		SET session_id = $2
		WHERE order_ref = $1
	`
	_, err := r.db.Exec(ctx, query, orderRef, sessionID)
	return err
}

func (r *PaymentRepository) scanPayment(row pgx.Row) (*models.PaymentRecord, error) {
	var payment models.PaymentRecord
	err := row.Scan(
		&payment.ID,
		&payment.OrderRef,
		&payment.PaymentID,
		&payment.Signature,
		&payment.Amount,
		&payment.Currency,
		&payment.DurationMinutes,
		&payment.UserEmail,
		&payment.Status,
		&payment.SessionID,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
