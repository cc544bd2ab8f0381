package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caravantransport/caravan-crm/app/repository"
)

// HandleListPayments returns a paginated list of recorded payments, newest
// first.
func HandleListPayments(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalRepositories().Payment

	payments, err := repo.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load payments"})
	}
	total, err := repo.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count payments"})
	}

	return c.JSON(fiber.Map{"payments": payments, "total": total})
}
