package handlers

import (
	"crypto/hmac"
	"encoding/json"
	"log"

	"github.com/AyushSid28/Coach-Loop/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	secret string
}

func NewWebhookHandler(secret string) *WebhookHandler {
	return &WebhookHandler{secret: secret}
}

// HandleWebhook authenticates a gateway event against the raw request body.
// A bad signature rejects the event with no state mutation; accepted events
// are acknowledged and logged only.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	signature := c.Get("X-Razorpay-Signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Signature header is required"})
	}

	expected := services.SignPayload(h.secret, string(c.Body()))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		log.Println("webhook: invalid signature")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid Webhook Signature"})
	}

	var event struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid webhook payload"})
	}

	switch event.Event {
	case "subscription.activated":
		log.Println("webhook: subscription activated")
	case "subscription.cancelled":
		log.Println("webhook: subscription cancelled")
	case "invoice.paid":
		log.Println("webhook: invoice paid")
	case "invoice.payment_failed":
		log.Println("webhook: invoice payment failed")
	default:
		log.Printf("webhook: event %q", event.Event)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Webhook processed successfully"})
}
