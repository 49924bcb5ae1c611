package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/services"
	"github.com/gofiber/fiber/v2"
)

// SummaryHandler is a thin transport adapter over the summary producer; the
// scheduler calls the same Generate function directly.
type SummaryHandler struct {
	service summaryProducer
}

type summaryProducer interface {
	Generate(ctx context.Context, sessionID int64) (*models.Summary, error)
}

func NewSummaryHandler(service *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

func (h *SummaryHandler) GenerateSummary(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("sessionId"), 10, 64)
	if err != nil || sessionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid session id"})
	}

	summary, err := h.service.Generate(c.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Session Not Found"})
		case errors.Is(err, services.ErrNoMessages):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Session has no messages to summarize"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to generate summary"})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Summary generated successfully",
		"summary": summary,
	})
}
