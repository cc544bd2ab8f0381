package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caravantransport/caravan-crm/app/models"
	"github.com/caravantransport/caravan-crm/app/repository"
)

// HandleCreateCustomer creates a customer record.
func HandleCreateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "Invalid request body"})
	}
	customer.ID = 0
	customer.UUID = ""

	if err := customer.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := repository.GetGlobalRepositories().Customer.Create(&customer); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create customer"})
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// HandleListCustomers returns a paginated customer list. A search query
// filters by name or email.
func HandleListCustomers(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Customer

	if query := c.Query("q"); query != "" {
		customers, err := repo.Search(query)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Search failed"})
		}
		return c.JSON(fiber.Map{"customers": customers, "total": len(customers)})
	}

	offset, limit := parsePagination(c)
	customers, err := repo.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customers"})
	}
	total, err := repo.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count customers"})
	}
	return c.JSON(fiber.Map{"customers": customers, "total": total})
}

// HandleGetCustomer returns a customer with their contract history.
func HandleGetCustomer(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	customer, err := repos.Customer.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customer"})
	}

	contracts, err := repos.Contract.ListByCustomer(customer.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load contracts"})
	}
	customer.Contracts = contracts

	return c.JSON(customer)
}

// HandleUpdateCustomer updates customer details.
func HandleUpdateCustomer(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Customer
	customer, err := repo.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customer"})
	}

	var input models.Customer
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "Invalid request body"})
	}

	if input.FirstName != "" {
		customer.FirstName = input.FirstName
	}
	if input.LastName != "" {
		customer.LastName = input.LastName
	}
	if input.Email != "" {
		customer.Email = input.Email
	}
	if input.Phone != "" {
		customer.Phone = input.Phone
	}
	if input.PickupAddress != "" {
		customer.PickupAddress = input.PickupAddress
	}
	if input.DeliveryAddress != "" {
		customer.DeliveryAddress = input.DeliveryAddress
	}
	if input.VehicleMake != "" {
		customer.VehicleMake = input.VehicleMake
	}
	if input.VehicleModel != "" {
		customer.VehicleModel = input.VehicleModel
	}
	if input.VehicleYear != 0 {
		customer.VehicleYear = input.VehicleYear
	}
	if input.Notes != "" {
		customer.Notes = input.Notes
	}

	if err := customer.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repo.Update(customer); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update customer"})
	}
	return c.JSON(customer)
}

// HandleDeleteCustomer soft deletes a customer.
func HandleDeleteCustomer(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Customer
	customer, err := repo.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customer"})
	}
	if err := repo.Delete(customer.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete customer"})
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
