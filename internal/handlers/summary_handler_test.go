package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubSummaryProducer struct {
	result        *models.Summary
	err           error
	lastSessionID int64
}

func (s *stubSummaryProducer) Generate(_ context.Context, sessionID int64) (*models.Summary, error) {
	s.lastSessionID = sessionID
	return s.result, s.err
}

func TestGenerateSummaryReturnsSummary(t *testing.T) {
	service := &stubSummaryProducer{
		result: &models.Summary{Text: "**Key points discussed:**\n- goals", GeneratedAt: time.Now()},
	}
	handler := &SummaryHandler{service: service}

	app := fiber.New()
	app.Post("/api/session-summary/:sessionId", handler.GenerateSummary)

	req := httptest.NewRequest(http.MethodPost, "/api/session-summary/12", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastSessionID != 12 {
		t.Fatalf("expected session id 12, got %d", service.lastSessionID)
	}

	var body struct {
		Summary models.Summary `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Summary.Text == "" {
		t.Fatal("expected summary text in the response")
	}
}

func TestGenerateSummaryUnknownSession(t *testing.T) {
	service := &stubSummaryProducer{err: services.ErrSessionNotFound}
	handler := &SummaryHandler{service: service}

	app := fiber.New()
	app.Post("/api/session-summary/:sessionId", handler.GenerateSummary)

	req := httptest.NewRequest(http.MethodPost, "/api/session-summary/999", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGenerateSummaryEmptySession(t *testing.T) {
	service := &stubSummaryProducer{err: services.ErrNoMessages}
	handler := &SummaryHandler{service: service}

	app := fiber.New()
	app.Post("/api/session-summary/:sessionId", handler.GenerateSummary)

	req := httptest.NewRequest(http.MethodPost, "/api/session-summary/12", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGenerateSummaryRejectsInvalidID(t *testing.T) {
	handler := &SummaryHandler{service: &stubSummaryProducer{}}

	app := fiber.New()
	app.Post("/api/session-summary/:sessionId", handler.GenerateSummary)

	req := httptest.NewRequest(http.MethodPost, "/api/session-summary/abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
