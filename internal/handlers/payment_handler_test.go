package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubPaymentService struct {
	createResult   *models.PaymentRecord
	createDuration int
	createErr      error
	verifyResult   *models.PaymentRecord
	verifyErr      error
	options        []models.PaymentOption
	lastAmount     int
	lastCurrency   string
	lastEmail      string
	lastOrderRef   string
	lastPaymentID  string
	lastSignature  string
}

func (s *stubPaymentService) CreateOrder(_ context.Context, amount int, currency, userEmail string) (*models.PaymentRecord, int, error) {
	s.lastAmount = amount
	s.lastCurrency = currency
	s.lastEmail = userEmail
	return s.createResult, s.createDuration, s.createErr
}

func (s *stubPaymentService) VerifyPayment(_ context.Context, orderRef, paymentID, signature string) (*models.PaymentRecord, error) {
	s.lastOrderRef = orderRef
	s.lastPaymentID = paymentID
	s.lastSignature = signature
	return s.verifyResult, s.verifyErr
}

func (s *stubPaymentService) Options() []models.PaymentOption {
	return s.options
}

func TestCreateOrderReturnsOrderWithDuration(t *testing.T) {
	service := &stubPaymentService{
		createResult: &models.PaymentRecord{
			ID:              3,
			OrderRef:        "order_abc",
			Amount:          10,
			Currency:        "INR",
			DurationMinutes: 10,
			Status:          models.PaymentStatusPending,
		},
		createDuration: 10,
	}
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Post("/api/payment/create-order", handler.CreateOrder)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/create-order", strings.NewReader(`{
		"amount": 10,
		"user_email": "user@example.com"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastAmount != 10 || service.lastEmail != "user@example.com" {
		t.Fatalf("unexpected forwarded input: amount=%d email=%q", service.lastAmount, service.lastEmail)
	}

	var body struct {
		Success  bool `json:"success"`
		Duration int  `json:"duration"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !body.Success || body.Duration != 10 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestCreateOrderRejectsUnsupportedAmount(t *testing.T) {
	service := &stubPaymentService{createErr: services.ErrInvalidAmount}
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Post("/api/payment/create-order", handler.CreateOrder)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/create-order", strings.NewReader(`{"amount": 7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrderRequiresAmount(t *testing.T) {
	service := &stubPaymentService{}
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Post("/api/payment/create-order", handler.CreateOrder)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/create-order", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if service.lastAmount != 0 {
		t.Fatal("service must not be called without an amount")
	}
}

func TestVerifyPaymentReturnsNotFoundForUnknownOrder(t *testing.T) {
	service := &stubPaymentService{verifyErr: services.ErrOrderNotFound}
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Post("/api/payment/verify", handler.VerifyPayment)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", strings.NewReader(`{
		"order_ref": "order_missing",
		"payment_id": "pay_1",
		"signature": "deadbeef"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestVerifyPaymentRejectsFailedVerification(t *testing.T) {
	service := &stubPaymentService{
		verifyResult: &models.PaymentRecord{OrderRef: "order_abc", Status: models.PaymentStatusFailed},
	}
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Post("/api/payment/verify", handler.VerifyPayment)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", strings.NewReader(`{
		"order_ref": "order_abc",
		"payment_id": "pay_1",
		"signature": "deadbeef"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Success || body.Message != "Payment Verification Failed" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestVerifyPaymentReturnsVerifiedPayment(t *testing.T) {
	paymentID := "pay_1"
	service := &stubPaymentService{
		verifyResult: &models.PaymentRecord{
			OrderRef:  "order_abc",
			PaymentID: &paymentID,
			Status:    models.PaymentStatusSuccess,
		},
	}
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Post("/api/payment/verify", handler.VerifyPayment)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", strings.NewReader(`{
		"order_ref": "order_abc",
		"payment_id": "pay_1",
		"signature": "deadbeef"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastOrderRef != "order_abc" || service.lastSignature != "deadbeef" {
		t.Fatalf("unexpected forwarded input: %q %q", service.lastOrderRef, service.lastSignature)
	}
}

func TestVerifyPaymentRequiresAllFields(t *testing.T) {
	service := &stubPaymentService{}
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Post("/api/payment/verify", handler.VerifyPayment)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify", strings.NewReader(`{"order_ref": "order_abc"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetOptionsListsConfiguredTiers(t *testing.T) {
	service := &stubPaymentService{
		options: []models.PaymentOption{
			{Amount: 5, DurationMinutes: 5},
			{Amount: 10, DurationMinutes: 10},
		},
	}
	handler := &PaymentHandler{service: service}

	app := fiber.New()
	app.Get("/api/payment/options", handler.GetOptions)

	req := httptest.NewRequest(http.MethodGet, "/api/payment/options", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Options []models.PaymentOption `json:"options"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Options) != 2 || body.Options[0].Amount != 5 {
		t.Fatalf("unexpected options: %+v", body.Options)
	}
}
