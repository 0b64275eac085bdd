package handlers

import (
	"errors"
	"log"
	"math"

	"counsel/internal/models"
	"counsel/internal/services/catalog"
	"counsel/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalog catalog.Service
}

func NewCatalogHandler(catalogService catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

type serviceView struct {
	models.Service
	PriceLabel string `json:"price_label"`
}

func viewsOf(services []models.Service) []serviceView {
	out := make([]serviceView, 0, len(services))
	for i := range services {
		out = append(out, serviceView{Service: services[i], PriceLabel: catalog.PriceLabel(&services[i])})
	}
	return out
}

// ListActive returns the public catalog.
func (h *CatalogHandler) ListActive(c *fiber.Ctx) error {
	services, err := h.catalog.ListActive(c.Context())
	if err != nil {
		log.Printf("Error listing services: %v", err)
		return response.ServerError(c, "Failed to list services")
	}
	return response.Success(c, "Services retrieved successfully", viewsOf(services))
}

func (h *CatalogHandler) GetBySlug(c *fiber.Ctx) error {
	svc, err := h.catalog.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return response.NotFound(c, "Service not found")
		}
		log.Printf("Error getting service %s: %v", c.Params("slug"), err)
		return response.ServerError(c, "Failed to get service")
	}
	return response.Success(c, "Service retrieved successfully", serviceView{Service: *svc, PriceLabel: catalog.PriceLabel(svc)})
}

// ListAll includes inactive services for admins.
func (h *CatalogHandler) ListAll(c *fiber.Ctx) error {
	services, err := h.catalog.ListAll(c.Context())
	if err != nil {
		log.Printf("Error listing services: %v", err)
		return response.ServerError(c, "Failed to list services")
	}
	return response.Success(c, "Services retrieved successfully", viewsOf(services))
}

func (h *CatalogHandler) UpdatePrice(c *fiber.Ctx) error {
	var input struct {
		Price *float64 `json:"price"`
	}
	if err := c.BodyParser(&input); err != nil || input.Price == nil {
		return response.BadRequest(c, "price is required")
	}

	svc, err := h.catalog.UpdatePrice(c.Context(), c.Params("id"), *input.Price)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidPrice):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, catalog.ErrServiceNotFound):
			return response.NotFound(c, "Service not found")
		}
		log.Printf("Error updating price for service %s: %v", c.Params("id"), err)
		return response.ServerError(c, "Failed to update price")
	}
	return response.Success(c, "Price updated successfully", serviceView{Service: *svc, PriceLabel: catalog.PriceLabel(svc)})
}

// ConsultationFee exposes the fee charged for the initial consultation.
func (h *CatalogHandler) ConsultationFee(c *fiber.Ctx) error {
	fee, err := h.catalog.ConsultationFee(c.Context())
	if err != nil {
		log.Printf("Error reading consultation fee: %v", err)
		return response.ServerError(c, "Failed to read consultation fee")
	}
	return c.JSON(fiber.Map{"fee": fee, "amount": int64(math.Round(fee * 100)), "currency": "usd"})
}
