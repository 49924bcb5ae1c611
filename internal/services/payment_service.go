package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidAmount = errors.New("invalid payment amount")
	ErrOrderNotFound = errors.New("order not found")
)

// paymentDurations maps supported amounts to entitled session minutes.
// Read-only after init; safe for concurrent use.
var paymentDurations = map[int]int{
	5:   5,
	10:  10,
	15:  15,
	20:  20,
	25:  25,
	30:  30,
	50:  50,
	100: 100,
}

type paymentStore interface {
	Create(ctx context.Context, input repository.CreatePaymentInput) (*models.PaymentRecord, error)
	GetByOrderRef(ctx context.Context, orderRef string) (*models.PaymentRecord, error)
	Finalize(ctx context.Context, orderRef, paymentID, signature, status string) (*models.PaymentRecord, error)
}

type PaymentService struct {
	payments paymentStore
	secret   string
}

func NewPaymentService(payments *repository.PaymentRepository, secret string) *PaymentService {
	return &PaymentService{payments: payments, secret: secret}
}

// CreateOrder registers a pending payment for a supported amount and returns
// the record plus the session minutes the amount buys.
func (s *PaymentService) CreateOrder(
	ctx context.Context,
	amount int,
	currency string,
	userEmail string,
) (*models.PaymentRecord, int, error) {
	duration, ok := paymentDurations[amount]
	if !ok {
		return nil, 0, ErrInvalidAmount
	}
	if currency == "" {
		currency = "INR"
	}

	var email *string
	if userEmail != "" {
		email = &userEmail
	}

	payment, err := s.payments.Create(ctx, repository.CreatePaymentInput{
		OrderRef:        "order_" + uuid.NewString(),
		Amount:          amount,
		Currency:        currency,
		DurationMinutes: duration,
		UserEmail:       email,
	})
	if err != nil {
		return nil, 0, err
	}
	return payment, duration, nil
}

// VerifyPayment recomputes the gateway signature over "orderRef|paymentID"
// and finalizes the order as success or failed. The comparison is
// constant-time.
func (s *PaymentService) VerifyPayment(
	ctx context.Context,
	orderRef string,
	paymentID string,
	signature string,
) (*models.PaymentRecord, error) {
	if _, err := s.payments.GetByOrderRef(ctx, orderRef); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	expected := SignPayload(s.secret, orderRef+"|"+paymentID)

	status := models.PaymentStatusFailed
	if hmac.Equal([]byte(expected), []byte(signature)) {
		status = models.PaymentStatusSuccess
	}

	return s.payments.Finalize(ctx, orderRef, paymentID, signature, status)
}

// Options returns the static amount-to-duration table, ordered by amount.
func (s *PaymentService) Options() []models.PaymentOption {
	options := make([]models.PaymentOption, 0, len(paymentDurations))
	for amount, duration := range paymentDurations {
		options = append(options, models.PaymentOption{
			Amount:          amount,
			DurationMinutes: duration,
			Label:           fmt.Sprintf("₹%d for %d minutes", amount, duration),
		})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Amount < options[j].Amount })
	return options
}

// SignPayload produces the hex-encoded HMAC-SHA256 the payment gateway and
// webhook contracts require.
func SignPayload(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
