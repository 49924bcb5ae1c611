package handlers

import (
	"context"
	"strconv"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/services"
	sessionws "github.com/AyushSid28/Coach-Loop/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	sessions chatSessionService
	coach    coachResponder
	hub      *sessionws.Hub
}

type chatSessionService interface {
	ValidateSession(ctx context.Context, sessionID int64) (*services.SessionStatus, error)
	SaveMessage(ctx context.Context, sessionID int64, sender, text string) (*models.Message, error)
	Transcript(ctx context.Context, sessionID int64) ([]models.Message, error)
}

type coachResponder interface {
	Reply(ctx context.Context, coachType string, history []models.Message, userInput string) (string, error)
}

func NewChatHandler(sessions *services.SessionService, coach *services.CoachService, hub *sessionws.Hub) *ChatHandler {
	return &ChatHandler{sessions: sessions, coach: coach, hub: hub}
}

type chatRequest struct {
	SessionID int64  `json:"session_id"`
	UserInput string `json:"user_input"`
}

// Chat runs one coaching turn: gate on liveness, persist the user message,
// ask the model, persist and return its reply.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SessionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}
	if req.UserInput == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message cannot be empty"})
	}

	status, err := h.sessions.ValidateSession(c.Context(), req.SessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	history, err := h.sessions.Transcript(c.Context(), req.SessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	if _, err := h.sessions.SaveMessage(c.Context(), req.SessionID, models.SenderUser, req.UserInput); err != nil {
		return mapSessionError(c, err)
	}

	reply, err := h.coach.Reply(c.Context(), status.Session.CoachType, history, req.UserInput)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Coach is unavailable right now"})
	}

	if _, err := h.sessions.SaveMessage(c.Context(), req.SessionID, models.SenderAssistant, reply); err != nil {
		return mapSessionError(c, err)
	}

	return c.JSON(fiber.Map{
		"response":          reply,
		"remaining_seconds": status.RemainingSeconds,
	})
}

// WebSocketUpgrade rejects plain HTTP requests on the websocket route.
func (h *ChatHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket subscribes a client to its session's lifecycle events and
// immediately pushes a remaining-time snapshot.
func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	sessionID, err := strconv.ParseInt(conn.Query("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","message":"invalid session id"}`))
		_ = conn.Close()
		return
	}

	status, err := h.sessions.ValidateSession(context.Background(), sessionID)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","message":"session is not active"}`))
		_ = conn.Close()
		return
	}

	client := sessionws.NewClient(h.hub, conn, strconv.FormatInt(sessionID, 10))
	h.hub.Register(client)
	go client.WritePump()
	client.SendRemaining(status.RemainingSeconds)
	client.ReadPump()
}
