// Package routes defines the API routing configuration.
// It wires repositories and services together and mounts every handler
// with its middleware.
package routes

import (
	"log"
	"time"

	"counsel/internal/config"
	"counsel/internal/events"
	"counsel/internal/handlers"
	"counsel/internal/middleware"
	"counsel/internal/models"
	"counsel/internal/repositories"
	"counsel/internal/repositories/cache"
	"counsel/internal/services/auth"
	"counsel/internal/services/catalog"
	"counsel/internal/services/checkout"
	"counsel/internal/services/consultation"
	"counsel/internal/services/dashboard"
	"counsel/internal/services/intake"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Dependencies are the external clients the routes need.
type Dependencies struct {
	DB       *gorm.DB
	Cache    *cache.CacheService
	Pending  cache.PendingStore
	Events   *events.Producer
	Sessions checkout.SessionClient
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	pending := deps.Pending
	if pending == nil {
		log.Println("⚠️ No pending-state store configured, using in-memory store")
		pending = cache.NewMemoryPendingStore()
	}

	// Initialize repositories
	paymentRepo := repositories.NewPaymentRepository(deps.DB)
	submissionRepo := repositories.NewSubmissionRepository(deps.DB)
	profileRepo := repositories.NewProfileRepository(deps.DB, deps.Cache)
	serviceRepo := repositories.NewServiceRepository(deps.DB)
	purchaseRepo := repositories.NewPurchaseRepository(deps.DB)

	// Initialize services in dependency order
	var catalogCache catalog.Cache
	if deps.Cache != nil {
		catalogCache = deps.Cache
	}
	catalogService := catalog.NewService(serviceRepo, catalogCache, catalog.Config{
		ConsultationSlug: config.GetEnv("CONSULTATION_SERVICE_SLUG", catalog.DefaultConsultationSlug),
		DefaultFee:       config.GetFloatEnv("CONSULTATION_FEE_DEFAULT", catalog.DefaultConsultationFee),
	})

	flow := consultation.NewFlow(paymentRepo, submissionRepo, catalogService, pending, deps.Events)
	linker := consultation.NewLinker(paymentRepo, submissionRepo, profileRepo, pending, deps.Events)

	authService := auth.NewService(profileRepo, linker)
	intakeService := intake.NewService(submissionRepo, flow, deps.Events)
	checkoutService := checkout.NewService(deps.Sessions, checkout.Config{
		SiteOrigin:    config.GetEnv("SITE_ORIGIN", "http://localhost:5173"),
		WebhookSecret: config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	})
	dashboardService := dashboard.NewService(profileRepo, submissionRepo, paymentRepo, purchaseRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, pending)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, flow)
	consultationHandler := handlers.NewConsultationHandler(flow, linker, pending, checkoutService)
	formHandler := handlers.NewFormHandler(intakeService, flow, pending)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Counsel API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	// Stripe calls the webhook directly, so it sits outside the visitor cookie.
	app.Post("/api/checkout/webhook", checkoutHandler.Webhook)

	checkoutLimit := rateLimit(10)
	app.All("/api/checkout/session", checkoutLimit, checkoutHandler.CreateSession)
	app.All("/.netlify/functions/create-checkout-session", checkoutLimit, checkoutHandler.CreateSession)

	api := app.Group("/api", middleware.Visitor())

	setupAuthRoutes(api, authHandler, authMiddleware)
	setupConsultationRoutes(api, consultationHandler, formHandler, authMiddleware)
	setupServiceRoutes(api, catalogHandler)

	api.Get("/dashboard", authMiddleware.Handler,
		middleware.HasPermission(models.PermissionDashboardRead), dashboardHandler.GetUserDashboard)

	setupAdminRoutes(api, authMiddleware, dashboardHandler, catalogHandler, healthHandler)
}

func setupAuthRoutes(api fiber.Router, h *handlers.AuthHandler, authMiddleware *middleware.AuthMiddleware) {
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", rateLimit(5), h.Signup)
	authGroup.Post("/login", rateLimit(5), h.Login)
	authGroup.Post("/refresh", h.RefreshToken)

	authGroup.Post("/logout", authMiddleware.Handler, h.Logout)
	authGroup.Post("/change-password", authMiddleware.Handler,
		middleware.HasPermission(models.PermissionProfileWrite), h.ChangePassword)
	authGroup.Get("/me", authMiddleware.Handler, h.Me)
}

func setupConsultationRoutes(api fiber.Router, ch *handlers.ConsultationHandler, fh *handlers.FormHandler, authMiddleware *middleware.AuthMiddleware) {
	consultationGroup := api.Group("/consultation")
	consultationGroup.Post("/payment-confirmed", ch.PaymentConfirmed)
	consultationGroup.Post("/skip", ch.Skip)
	consultationGroup.Get("/status", authMiddleware.Optional, ch.Status)
	consultationGroup.Post("/link", authMiddleware.Handler, ch.Link)

	forms := api.Group("/forms", authMiddleware.Optional)
	forms.Get("/access", ch.FormAccess)
	forms.Post("/:formType", fh.Submit)
}

func setupServiceRoutes(api fiber.Router, h *handlers.CatalogHandler) {
	services := api.Group("/services")
	services.Get("/", h.ListActive)
	services.Get("/consultation-fee", h.ConsultationFee)
	services.Get("/:slug", h.GetBySlug)
}

func setupAdminRoutes(api fiber.Router, authMiddleware *middleware.AuthMiddleware, dh *handlers.DashboardHandler, ch *handlers.CatalogHandler, hh *handlers.HealthHandler) {
	admin := api.Group("/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	admin.Get("/stats", middleware.HasPermission(models.PermissionReadAdmin), dh.GetAdminStats)
	admin.Get("/cache-stats", middleware.HasPermission(models.PermissionReadAdmin), hh.CacheStats)

	admin.Get("/submissions", middleware.HasPermission(models.PermissionReadAdmin), dh.ListSubmissions)
	admin.Patch("/submissions/:id", middleware.HasPermission(models.PermissionWriteAdmin), dh.UpdateSubmissionStatus)

	admin.Get("/services", middleware.HasPermission(models.PermissionServicesManage), ch.ListAll)
	admin.Patch("/services/:id/price", middleware.HasPermission(models.PermissionServicesManage), ch.UpdatePrice)

	admin.Get("/users", middleware.HasPermission(models.PermissionReadAdmin), dh.ListUsers)
	admin.Patch("/users/:id/role", middleware.HasPermission(models.PermissionWriteAdmin), dh.UpdateUserRole)

	admin.Get("/purchases", middleware.HasPermission(models.PermissionReadAdmin), dh.ListPurchases)
}

func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
