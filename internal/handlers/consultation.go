package handlers

import (
	"context"
	"errors"
	"log"

	"counsel/internal/models"
	"counsel/internal/services/checkout"
	"counsel/internal/services/consultation"
	"counsel/internal/utils"
	"counsel/internal/utils/response"
	"counsel/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AccountLinker is the reconciliation step run for a signed-in account.
type AccountLinker interface {
	LinkToAccount(ctx context.Context, visitorID, userID, email string, state models.PendingAccountState) (consultation.LinkResult, error)
}

type ConsultationHandler struct {
	flow     *consultation.Flow
	linker   AccountLinker
	pending  consultation.PendingStore
	checkout checkout.Service
}

func NewConsultationHandler(flow *consultation.Flow, linker AccountLinker, pending consultation.PendingStore, checkoutService checkout.Service) *ConsultationHandler {
	return &ConsultationHandler{
		flow:     flow,
		linker:   linker,
		pending:  pending,
		checkout: checkoutService,
	}
}

// PaymentConfirmed is called by the payment success page with the Stripe
// session id from the redirect.
func (h *ConsultationHandler) PaymentConfirmed(c *fiber.Ctx) error {
	var input struct {
		Email     string `json:"email"`
		SessionID string `json:"session_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	visitorID := utils.VisitorID(c)
	email := validation.NormalizeEmail(input.Email)
	if email == "" {
		return response.BadRequest(c, consultation.ErrMissingEmail.Error())
	}
	if input.SessionID == "" {
		return response.BadRequest(c, consultation.ErrMissingPaymentRef.Error())
	}

	completed, err := h.checkout.ConfirmSession(c.Context(), input.SessionID, email)
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound), errors.Is(err, checkout.ErrSessionUnpaid), errors.Is(err, checkout.ErrEmailMismatch):
		log.Printf("Rejected payment confirmation for session %s: %v", input.SessionID, err)
		return response.BadRequest(c, err.Error())
	case err != nil:
		log.Printf("Error verifying checkout session %s: %v", input.SessionID, err)
		return response.ServerError(c, "Unable to verify payment")
	}

	amount := completed.Amount()
	paymentType := completed.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentTypeConsultation
	}
	session := h.flow.OnFormSubmitted(visitorID, email, true)
	session, err = h.flow.OnVerifiedPayment(c.Context(), session, consultation.PaymentRecord{
		Email:       completed.Email,
		Ref:         completed.SessionID,
		PaymentType: paymentType,
		Amount:      &amount,
		CustomerID:  completed.CustomerID,
		Metadata:    models.JSON{"service_id": completed.ServiceID, "source": "success_page"},
	})
	if err != nil {
		if errors.Is(err, consultation.ErrMissingEmail) || errors.Is(err, consultation.ErrMissingPaymentRef) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("Post-payment bookkeeping failed for %s: %v", email, err)
		return response.ServerError(c, consultation.BookkeepingMessage)
	}

	return c.JSON(fiber.Map{
		"payment_id":               session.PaymentID,
		"state":                    session.State.String(),
		"pending_account_creation": true,
		"signup_path":              consultation.SignupPath,
	})
}

// Skip dismisses the signup nudge and keeps the visitor pending.
func (h *ConsultationHandler) Skip(c *fiber.Ctx) error {
	visitorID := utils.VisitorID(c)
	state, err := h.pending.Load(c.Context(), visitorID)
	if err != nil {
		log.Printf("Error loading pending state for visitor %s: %v", visitorID, err)
		return response.ServerError(c, "Failed to load session")
	}

	result, err := h.flow.OnSkipAccountCreation(c.Context(), consultation.SessionFromState(visitorID, state))
	if err != nil {
		if errors.Is(err, consultation.ErrNoPendingPayment) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("Error skipping account creation: %v", err)
		return response.ServerError(c, "Failed to save session")
	}

	return c.JSON(result)
}

// FormAccess answers whether the visitor may open another intake form.
func (h *ConsultationHandler) FormAccess(c *fiber.Ctx) error {
	state, err := h.pending.Load(c.Context(), utils.VisitorID(c))
	if err != nil {
		log.Printf("Error loading pending state: %v", err)
	}
	return c.JSON(consultation.CanAccessForms(utils.OptionalUserClaims(c), state))
}

// Link re-runs reconciliation for the signed-in account.
func (h *ConsultationHandler) Link(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	visitorID := utils.VisitorID(c)
	state, err := h.pending.Load(c.Context(), visitorID)
	if err != nil {
		log.Printf("Error loading pending state for visitor %s: %v", visitorID, err)
		return response.ServerError(c, "Failed to load session")
	}

	result, err := h.linker.LinkToAccount(c.Context(), visitorID, claims.UserID, claims.Email, state)
	if err != nil {
		log.Printf("Error linking account %s: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to link consultation")
	}

	return response.Success(c, "Consultation linked", result)
}

// Status reports whether a consultation has been paid and whether an
// anonymous payment still waits for an account.
func (h *ConsultationHandler) Status(c *fiber.Ctx) error {
	state, err := h.pending.Load(c.Context(), utils.VisitorID(c))
	if err != nil {
		log.Printf("Error loading pending state: %v", err)
	}

	email, userID := state.Email, ""
	if claims := utils.OptionalUserClaims(c); claims != nil {
		email, userID = claims.Email, claims.UserID
	}

	return c.JSON(fiber.Map{
		"consultation_paid":        h.flow.HasConsultationPaid(c.Context(), email, userID),
		"pending_account_creation": state.IsPending(),
		"email":                    email,
	})
}
