package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/caravantransport/caravan-crm/app/repository"
	"github.com/caravantransport/caravan-crm/internal/pkg/cache"
)

const analyticsCacheKey = "analytics:summary"
const analyticsCacheTTL = 60 * time.Second

type analyticsSummary struct {
	Customers      int64   `json:"customers"`
	Contracts      int64   `json:"contracts"`
	Payments       int64   `json:"payments"`
	CollectedTotal float64 `json:"collected_total"`
	GeneratedAt    string  `json:"generated_at"`
}

// HandleAnalytics returns dashboard aggregates. Results are cached in Redis
// for a short window since every count hits the database.
func HandleAnalytics(c *fiber.Ctx) error {
	if cached, err := cache.Get(analyticsCacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	repos := repository.GetGlobalRepositories()

	summary := analyticsSummary{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}
	var err error
	if summary.Customers, err = repos.Customer.Count(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load analytics"})
	}
	if summary.Contracts, err = repos.Contract.Count(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load analytics"})
	}
	if summary.Payments, err = repos.Payment.Count(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load analytics"})
	}
	if summary.CollectedTotal, err = repos.Payment.SumCompleted(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load analytics"})
	}

	if encoded, err := json.Marshal(summary); err == nil {
		if err := cache.Set(analyticsCacheKey, string(encoded), analyticsCacheTTL); err != nil {
			log.Printf("analytics cache write failed: %v", err)
		}
	}

	return c.JSON(summary)
}
