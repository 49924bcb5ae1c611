package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	"github.com/AyushSid28/Coach-Loop/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	service paymentApplicationService
}

type paymentApplicationService interface {
	CreateOrder(ctx context.Context, amount int, currency, userEmail string) (*models.PaymentRecord, int, error)
	VerifyPayment(ctx context.Context, orderRef, paymentID, signature string) (*models.PaymentRecord, error)
	Options() []models.PaymentOption
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type createOrderRequest struct {
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
	UserEmail string `json:"user_email"`
}

type verifyPaymentRequest struct {
	OrderRef  string `json:"order_ref"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Amount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Amount is required"})
	}

	payment, duration, err := h.service.CreateOrder(c.Context(), req.Amount, req.Currency, req.UserEmail)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid payment amount. Supported amounts: ₹5, ₹10, ₹15, ₹20, ₹25, ₹30, ₹50, ₹100",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Error creating order"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Order created successfully",
		"order":        payment,
		"duration":     duration,
		"session_time": fmt.Sprintf("%d minutes", duration),
	})
}

func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.OrderRef == "" || req.PaymentID == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "order_ref, payment_id and signature are required",
		})
	}

	payment, err := h.service.VerifyPayment(c.Context(), req.OrderRef, req.PaymentID, req.Signature)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Error verifying payment"})
	}

	if payment.Status != models.PaymentStatusSuccess {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment Verification Failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment Verified Successfully",
		"payment": payment,
	})
}

func (h *PaymentHandler) GetOptions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"options": h.service.Options(),
	})
}
