package handlers

import (
	"context"
	"time"

	"counsel/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewHealthHandler(db *gorm.DB, cacheService *cache.CacheService) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheService}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"database": "connected", "redis": "connected"}
	status := fiber.StatusOK

	if h.db == nil {
		services["database"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	} else if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		services["database"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	}

	if h.cache == nil || h.cache.HealthCheck(ctx) != nil {
		services["redis"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   state,
		"version":  "1.0.0",
		"services": services,
	})
}

func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "cache unavailable"})
	}
	return c.JSON(fiber.Map{"cache_stats": h.cache.GetStats()})
}
