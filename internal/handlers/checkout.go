package handlers

import (
	"errors"
	"log"

	"counsel/internal/models"
	"counsel/internal/services/checkout"
	"counsel/internal/services/consultation"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	checkout checkout.Service
	flow     *consultation.Flow
}

func NewCheckoutHandler(checkoutService checkout.Service, flow *consultation.Flow) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkoutService,
		flow:     flow,
	}
}

// CreateSession starts a Stripe Checkout session. It is mounted with
// app.All so that other methods get an explicit 405.
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Method not allowed"})
	}

	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": checkout.ErrMissingFields.Error()})
	}

	sess, err := h.checkout.CreateSession(c.Context(), req, c.Get(fiber.HeaderOrigin))
	if err != nil {
		if errors.Is(err, checkout.ErrMissingFields) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("Error creating checkout session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(sess)
}

// Webhook books completed checkout sessions whose visitor never came back
// to the success page.
func (h *CheckoutHandler) Webhook(c *fiber.Ctx) error {
	completed, err := h.checkout.ParseWebhook(c.Body(), c.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, checkout.ErrUnhandledEvent):
		return c.JSON(fiber.Map{"received": true})
	case errors.Is(err, checkout.ErrInvalidSignature):
		log.Printf("Rejected webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	case err != nil:
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if !completed.Paid {
		log.Printf("Checkout session %s completed without payment", completed.SessionID)
		return c.JSON(fiber.Map{"received": true})
	}

	amount := completed.Amount()
	payment, err := h.flow.RecordPayment(c.Context(), consultation.PaymentRecord{
		Email:       completed.Email,
		Ref:         completed.SessionID,
		PaymentType: completed.PaymentType,
		Amount:      &amount,
		CustomerID:  completed.CustomerID,
		Metadata:    models.JSON{"service_id": completed.ServiceID, "source": "webhook"},
	})
	if err != nil {
		log.Printf("Error recording webhook payment %s: %v", completed.SessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	return c.JSON(fiber.Map{"received": true, "payment_id": payment.ID})
}
