package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caravantransport/caravan-crm/app/models"
	"github.com/caravantransport/caravan-crm/internal/pkg/contracts"
)

const defaultPageSize = 25
const maxPageSize = 100

// parsePagination reads page/page_size query params with sane bounds.
func parsePagination(c *fiber.Ctx) (offset, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.Query("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return (page - 1) * size, size
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q, expected RFC 3339 or YYYY-MM-DD", value)
}

// applyContractDates parses the optional date strings of the input onto the
// contract. An explicit empty string clears the date.
func applyContractDates(contract *models.Contract, input *ContractInput) error {
	for _, field := range []struct {
		raw  *string
		dest **time.Time
	}{
		{input.PickupDate, &contract.PickupDate},
		{input.DeliveryDate, &contract.DeliveryDate},
		{input.EstimatedDelivery, &contract.EstimatedDelivery},
	} {
		if field.raw == nil {
			continue
		}
		if *field.raw == "" {
			*field.dest = nil
			continue
		}
		t, err := parseDate(*field.raw)
		if err != nil {
			return err
		}
		*field.dest = t
	}
	return nil
}

// lifecycleErrorResponse maps lifecycle service errors onto HTTP statuses.
func lifecycleErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, contracts.ErrContractNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Contract not found"})
	case errors.Is(err, contracts.ErrCustomerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found for this contract"})
	case errors.Is(err, contracts.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid or missing signing token"})
	case errors.Is(err, contracts.ErrAlreadySigned):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "already_signed", "message": "Contract has already been signed"})
	case errors.Is(err, contracts.ErrMissingToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_token", "message": "Contract has no signing token; send it first"})
	case errors.Is(err, contracts.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	case errors.Is(err, contracts.ErrProcessorNotConfigured):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processor_not_configured", "message": "Payment processor is not configured"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
}
