// Package main is the entry point for the API server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"counsel/internal/config"
	"counsel/internal/events"
	"counsel/internal/repositories"
	"counsel/internal/repositories/cache"
	"counsel/internal/routes"
	"counsel/internal/services/checkout"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes PostgreSQL and Redis
// - Connects the Kafka producer and Stripe client
// - Configures routes
// - Starts the HTTP server
func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repositories.Close()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Successfully connected to database with connection pooling")

	// Add a periodic check of connection pool stats
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
		}
	}()

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go repositories.CacheService.MonitorPool(monitorCtx, 5*time.Minute)

	producer := events.NewProducer(events.ProducerConfig{
		Broker:   config.GetEnv("KAFKA_BROKER", ""),
		Topic:    config.GetEnv("KAFKA_TOPIC", "counsel.events"),
		Username: config.GetEnv("KAFKA_USERNAME", ""),
		Password: config.GetEnv("KAFKA_PASSWORD", ""),
	})
	if producer == nil {
		log.Println("⚠️ KAFKA_BROKER not set, domain events are disabled")
	}
	defer producer.Close()

	stripeKey := config.GetEnv("STRIPE_SECRET_KEY", "")
	if stripeKey == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY not set, checkout sessions will fail")
	}

	app := fiber.New(fiber.Config{
		AppName: "Counsel API",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(config.GetListEnv("CORS_ORIGINS", []string{"http://localhost:5173"}), ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		DB:       repositories.DB,
		Cache:    repositories.CacheService,
		Pending:  cache.NewRedisPendingStore(repositories.RedisClient),
		Events:   producer,
		Sessions: checkout.NewStripeSessions(stripeKey),
	})

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
