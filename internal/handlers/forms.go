package handlers

import (
	"errors"
	"log"

	"counsel/internal/services/consultation"
	"counsel/internal/services/intake"
	"counsel/internal/utils"
	"counsel/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type FormHandler struct {
	intake  intake.Service
	flow    *consultation.Flow
	pending consultation.PendingStore
}

func NewFormHandler(intakeService intake.Service, flow *consultation.Flow, pending consultation.PendingStore) *FormHandler {
	return &FormHandler{
		intake:  intakeService,
		flow:    flow,
		pending: pending,
	}
}

// Submit stores an intake form after the access gate lets the visitor through.
func (h *FormHandler) Submit(c *fiber.Ctx) error {
	claims := utils.OptionalUserClaims(c)
	visitorID := utils.VisitorID(c)

	state, err := h.pending.Load(c.Context(), visitorID)
	if err != nil {
		log.Printf("Error loading pending state for visitor %s: %v", visitorID, err)
	}
	if decision := consultation.CanAccessForms(claims, state); !decision.CanAccess {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":      decision.Reason,
			"redirectTo": decision.RedirectTo,
		})
	}

	var data map[string]interface{}
	if err := c.BodyParser(&data); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	in := intake.SubmitInput{FormType: c.Params("formType"), Data: data}
	if claims != nil {
		in.UserID, in.UserEmail = claims.UserID, claims.Email
	}

	result, err := h.intake.Submit(c.Context(), in)
	if err != nil {
		var verr *intake.ValidationError
		switch {
		case errors.As(err, &verr):
			return response.ValidationErrors(c, verr.Errors)
		case errors.Is(err, intake.ErrUnknownFormType):
			return response.NotFound(c, "Unknown form type")
		}
		log.Printf("Error submitting %s form: %v", in.FormType, err)
		return response.ServerError(c, "Failed to submit form")
	}

	session := h.flow.OnFormSubmitted(visitorID, result.Submission.Email, result.NeedsPayment)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"submission":   result.Submission,
		"needsPayment": result.NeedsPayment,
		"serviceSlug":  result.ServiceSlug,
		"state":        session.State.String(),
	})
}
