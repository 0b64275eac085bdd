package handlers

import (
	"errors"
	"log"

	"counsel/internal/services/dashboard"
	"counsel/internal/utils"
	"counsel/internal/utils/pagination"
	"counsel/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetUserDashboard returns the caller's submissions, payments and purchases.
func (h *DashboardHandler) GetUserDashboard(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	data, err := h.dashboardService.GetUserDashboard(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			return response.NotFound(c, "Profile not found")
		}
		log.Printf("Error loading dashboard for %s: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to get dashboard data")
	}

	return response.Success(c, "Dashboard data retrieved successfully", data)
}

func (h *DashboardHandler) GetAdminStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetAdminStats(c.Context())
	if err != nil {
		log.Printf("Error loading admin stats: %v", err)
		return response.ServerError(c, "Failed to get admin stats")
	}
	return response.Success(c, "Admin stats retrieved successfully", stats)
}

func (h *DashboardHandler) ListSubmissions(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	submissions, total, err := h.dashboardService.ListSubmissions(c.Context(), c.Query("form_type"), p.Offset, p.Limit)
	if err != nil {
		log.Printf("Error listing submissions: %v", err)
		return response.ServerError(c, "Failed to list submissions")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, submissions))
}

func (h *DashboardHandler) UpdateSubmissionStatus(c *fiber.Ctx) error {
	var input struct {
		Status     string  `json:"status"`
		AdminNotes *string `json:"admin_notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	submission, err := h.dashboardService.UpdateSubmissionStatus(c.Context(), c.Params("id"), input.Status, input.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrInvalidStatus):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, dashboard.ErrNotFound):
			return response.NotFound(c, "Submission not found")
		}
		log.Printf("Error updating submission %s: %v", c.Params("id"), err)
		return response.ServerError(c, "Failed to update submission")
	}
	return response.Success(c, "Submission updated successfully", submission)
}

func (h *DashboardHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	users, total, err := h.dashboardService.ListUsers(c.Context(), p.Offset, p.Limit)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return response.ServerError(c, "Failed to list users")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, users))
}

func (h *DashboardHandler) UpdateUserRole(c *fiber.Ctx) error {
	var input struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.dashboardService.UpdateUserRole(c.Context(), c.Params("id"), input.Role)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrInvalidRole):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, dashboard.ErrNotFound):
			return response.NotFound(c, "User not found")
		}
		log.Printf("Error updating role of %s: %v", c.Params("id"), err)
		return response.ServerError(c, "Failed to update role")
	}
	return response.Success(c, "Role updated successfully", profile)
}

func (h *DashboardHandler) ListPurchases(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	purchases, total, err := h.dashboardService.ListPurchases(c.Context(), p.Offset, p.Limit)
	if err != nil {
		log.Printf("Error listing purchases: %v", err)
		return response.ServerError(c, "Failed to list purchases")
	}
	p.Total = total
	return c.JSON(pagination.Response(p, purchases))
}
