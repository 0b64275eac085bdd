package main

import (
	"context"
	"log"
	"os"

	"counsel/internal/config"
	"counsel/internal/models"
	"counsel/internal/repositories"
	"counsel/internal/validation"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func price(v float64) *float64 { return &v }

var defaultServices = []models.Service{
	{
		Name:             "Initial Consultation",
		Slug:             "initial-consultation",
		ShortDescription: "One-hour strategy session with an attorney",
		Price:            price(150),
		PriceType:        models.PriceTypeFixed,
		Category:         "consultation",
		IsActive:         true,
		DisplayOrder:     1,
	},
	{
		Name:             "Emergency Legal Consultation",
		Slug:             "emergency-consultation",
		ShortDescription: "Urgent legal consultation with response within 2 hours",
		Price:            price(500),
		PriceType:        models.PriceTypeFixed,
		Category:         "consultation",
		IsActive:         true,
		DisplayOrder:     2,
	},
	{
		Name:         "General Consultation",
		Slug:         "general-consultation",
		Price:        price(150),
		PriceType:    models.PriceTypeFixed,
		Category:     "consultation",
		IsActive:     true,
		DisplayOrder: 3,
	},
	{
		Name:         "Business Immigration",
		Slug:         "business-immigration",
		Price:        price(2500),
		PriceType:    models.PriceTypeStartingAt,
		Features:     pq.StringArray{"EB-1", "EB-2 NIW", "EB-5", "L-1", "H-1B"},
		Category:     "immigration",
		IsActive:     true,
		DisplayOrder: 10,
	},
	{
		Name:         "Mergers & Acquisitions",
		Slug:         "mergers-acquisitions",
		PriceType:    models.PriceTypeCustom,
		Features:     pq.StringArray{"Due diligence", "Deal structuring", "Closing"},
		Category:     "corporate",
		IsActive:     true,
		DisplayOrder: 20,
	},
	{
		Name:         "AI Governance & Compliance",
		Slug:         "ai-governance",
		Price:        price(350),
		PriceType:    models.PriceTypeHourly,
		Features:     pq.StringArray{"Risk assessment", "Policy drafting", "Regulatory mapping"},
		Category:     "technology",
		IsActive:     true,
		DisplayOrder: 30,
	},
}

func main() {
	config.LoadEnv()

	adminEmail := validation.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repositories.Close()

	ctx := context.Background()
	services := repositories.NewServiceRepository(repositories.DB)
	for i := range defaultServices {
		if err := services.Upsert(ctx, &defaultServices[i]); err != nil {
			log.Fatalf("Failed to seed service %s: %v", defaultServices[i].Slug, err)
		}
	}
	log.Printf("Seeded %d services", len(defaultServices))

	profiles := repositories.NewProfileRepository(repositories.DB, nil)
	if _, err := profiles.GetByEmail(ctx, adminEmail); err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.Profile{
		Email:        adminEmail,
		FullName:     config.GetEnv("ADMIN_NAME", "Administrator"),
		Role:         models.RoleAdmin,
		PasswordHash: string(hashedPassword),
		TokenVersion: 1,
	}
	if err := profiles.Create(ctx, admin); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin user created successfully")
}
