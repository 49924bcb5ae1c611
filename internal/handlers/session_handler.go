package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	service   sessionApplicationService
	scheduler sessionEndScheduler
}

type sessionApplicationService interface {
	BookSession(ctx context.Context, input services.BookSessionInput) (*models.Session, error)
	ValidateSession(ctx context.Context, sessionID int64) (*services.SessionStatus, error)
	SaveMessage(ctx context.Context, sessionID int64, sender, text string) (*models.Message, error)
	GetMessages(ctx context.Context, sessionID int64) ([]services.MessageView, error)
}

type sessionEndScheduler interface {
	ScheduleSessionEnd(session *models.Session)
}

func NewSessionHandler(service *services.SessionService, scheduler sessionEndScheduler) *SessionHandler {
	return &SessionHandler{service: service, scheduler: scheduler}
}

type bookSessionRequest struct {
	UserName   string  `json:"user_name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	CoachType  string  `json:"coach_type"`
	PaymentRef string  `json:"payment_ref"`
}

type validateSessionRequest struct {
	SessionID int64 `json:"session_id"`
}

type saveMessageRequest struct {
	SessionID int64  `json:"session_id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
}

func (h *SessionHandler) BookSession(c *fiber.Ctx) error {
	var req bookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	session, err := h.service.BookSession(c.Context(), services.BookSessionInput{
		UserName:   req.UserName,
		Email:      req.Email,
		Phone:      req.Phone,
		CoachType:  req.CoachType,
		PaymentRef: req.PaymentRef,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	if h.scheduler != nil {
		h.scheduler.ScheduleSessionEnd(session)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session booked successfully!",
		"session_details": fiber.Map{
			"session_id":   session.ID,
			"user_name":    session.UserName,
			"email":        session.Email,
			"coach_type":   session.CoachType,
			"session_date": session.SessionDate,
			"duration":     session.DurationMinutes,
			"amount":       session.Amount,
			"end_time":     session.EndTime,
		},
	})
}

func (h *SessionHandler) ValidateSession(c *fiber.Ctx) error {
	var req validateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SessionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}

	status, err := h.service.ValidateSession(c.Context(), req.SessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	session := status.Session
	return c.JSON(fiber.Map{
		"message": "Session is active. You can now interact with your AI coach.",
		"session_details": fiber.Map{
			"session_id":     session.ID,
			"user_name":      session.UserName,
			"coach_type":     session.CoachType,
			"session_date":   session.SessionDate,
			"duration":       session.DurationMinutes,
			"remaining_time": status.RemainingSeconds,
			"end_time":       session.EndTime,
		},
	})
}

func (h *SessionHandler) SaveMessage(c *fiber.Ctx) error {
	var req saveMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SessionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}

	if _, err := h.service.SaveMessage(c.Context(), req.SessionID, req.Sender, req.Text); err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Message Saved Successfully!"})
}

func (h *SessionHandler) GetMessages(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	messages, err := h.service.GetMessages(c.Context(), sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}

func mapSessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMissingEmail):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is required to book a session."})
	case errors.Is(err, services.ErrMissingPayment):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment reference is required to book a session."})
	case errors.Is(err, services.ErrPaymentNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Valid payment not found. Please complete payment first."})
	case errors.Is(err, services.ErrPaymentAlreadyUsed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Payment already used for another session."})
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found. Please book a new session."})
	case errors.Is(err, services.ErrPaymentPending):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Payment not completed. Please complete payment to access the session."})
	case errors.Is(err, services.ErrSessionExpired):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":          "Session has expired. Please book a new session to continue.",
			"sessionExpired": true,
		})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
