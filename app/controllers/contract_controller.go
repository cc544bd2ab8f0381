package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caravantransport/caravan-crm/app/models"
	"github.com/caravantransport/caravan-crm/app/repository"
	"github.com/caravantransport/caravan-crm/internal/pkg/contracts"
	"github.com/caravantransport/caravan-crm/internal/pkg/usercontext"
)

var contractService *contracts.Service

// InitializeContractController injects the lifecycle service used by the
// contract handlers.
func InitializeContractController(svc *contracts.Service) {
	contractService = svc
}

// ContractInput is the payload for creating and updating contracts.
type ContractInput struct {
	CustomerUUID      string   `json:"customer_uuid"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	TotalAmount       float64  `json:"total_amount"`
	Currency          string   `json:"currency"`
	DepositAmount     *float64 `json:"deposit_amount"`
	PaymentMethod     string   `json:"payment_method"`
	TransportAmount   *float64 `json:"transport_amount"`
	BrokerFeeAmount   *float64 `json:"broker_fee_amount"`
	AmountPaidOnline  *float64 `json:"amount_paid_online"`
	AmountPaidCOD     *float64 `json:"amount_paid_cod"`
	PickupDate        *string  `json:"pickup_date"`
	DeliveryDate      *string  `json:"delivery_date"`
	EstimatedDelivery *string  `json:"estimated_delivery"`
}

// HandleCreateContract creates a draft contract for an existing customer.
func HandleCreateContract(c *fiber.Ctx) error {
	var input ContractInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "Invalid request body"})
	}

	customer, err := repository.GetGlobalRepositories().Customer.GetByUUID(input.CustomerUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customer"})
	}

	contract := &models.Contract{
		Title:            input.Title,
		Description:      input.Description,
		TotalAmount:      input.TotalAmount,
		Currency:         input.Currency,
		DepositAmount:    input.DepositAmount,
		PaymentMethod:    input.PaymentMethod,
		TransportAmount:  input.TransportAmount,
		BrokerFeeAmount:  input.BrokerFeeAmount,
		AmountPaidOnline: input.AmountPaidOnline,
		AmountPaidCOD:    input.AmountPaidCOD,
		Status:           models.ContractStatusDraft,
		CustomerID:       customer.ID,
	}
	if contract.Currency == "" {
		contract.Currency = "USD"
	}
	if contract.PaymentMethod == "" {
		contract.PaymentMethod = models.PaymentMethodCreditCard
	}
	if contract.Description == "" {
		contract.Description = models.DefaultContractTerms
	}
	if err := applyContractDates(contract, &input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := contract.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := repository.GetGlobalRepositories().Contract.Create(contract); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create contract"})
	}
	contract.Customer = customer

	return c.Status(fiber.StatusCreated).JSON(contract)
}

// HandleListContracts returns a paginated contract list, newest first.
func HandleListContracts(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repo := repository.GetGlobalRepositories().Contract

	list, err := repo.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load contracts"})
	}
	total, err := repo.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count contracts"})
	}

	return c.JSON(fiber.Map{"contracts": list, "total": total})
}

// HandleGetContract returns a single contract with its customer.
func HandleGetContract(c *fiber.Ctx) error {
	contract, err := repository.GetGlobalRepositories().Contract.GetByUUID(c.Params("uuid"))
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	return c.JSON(contract)
}

// HandleUpdateContract updates the commercial fields of a contract. Signed
// contracts are immutable.
func HandleUpdateContract(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Contract
	contract, err := repo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	if contract.IsSigned() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "already_signed", "message": "Signed contracts cannot be edited"})
	}

	var input ContractInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "Invalid request body"})
	}

	if input.Title != "" {
		contract.Title = input.Title
	}
	if input.Description != "" {
		contract.Description = input.Description
	}
	if input.TotalAmount > 0 {
		contract.TotalAmount = input.TotalAmount
	}
	if input.Currency != "" {
		contract.Currency = input.Currency
	}
	if input.PaymentMethod != "" {
		contract.PaymentMethod = input.PaymentMethod
	}
	if input.DepositAmount != nil {
		contract.DepositAmount = input.DepositAmount
	}
	if input.TransportAmount != nil {
		contract.TransportAmount = input.TransportAmount
	}
	if input.BrokerFeeAmount != nil {
		contract.BrokerFeeAmount = input.BrokerFeeAmount
	}
	if input.AmountPaidOnline != nil {
		contract.AmountPaidOnline = input.AmountPaidOnline
	}
	if input.AmountPaidCOD != nil {
		contract.AmountPaidCOD = input.AmountPaidCOD
	}
	if err := applyContractDates(contract, &input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := contract.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := repo.Update(contract); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update contract"})
	}
	return c.JSON(contract)
}

// HandleDeleteContract soft deletes a contract.
func HandleDeleteContract(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().Contract
	contract, err := repo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	if err := repo.Delete(contract.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete contract"})
	}
	return c.JSON(fiber.Map{"message": "Contract deleted"})
}

// HandleSendContract transitions the contract to sent and emails the
// customer.
func HandleSendContract(c *fiber.Ctx) error {
	result, err := contractService.Send(c.Context(), c.Params("uuid"))
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	return c.JSON(result)
}

// HandleResendContract re-dispatches the invitation email.
func HandleResendContract(c *fiber.Ctx) error {
	result, err := contractService.Resend(c.Context(), c.Params("uuid"))
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	if !result.EmailSent {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

// HandleVerifyContract returns the redacted public contract view for a valid
// signing token. The response always carries an explicit authorized flag so
// the signing page can distinguish a bad token from a transport failure.
func HandleVerifyContract(c *fiber.Ctx) error {
	view, err := contractService.Verify(c.Context(), c.Params("uuid"), c.Query("token"))
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"authorized": false, "error": "Invalid or missing signing token"})
		case errors.Is(err, contracts.ErrContractNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"authorized": false, "error": "Contract not found"})
		default:
			return lifecycleErrorResponse(c, err)
		}
	}
	return c.JSON(fiber.Map{"authorized": true, "contract": view})
}

// HandleSignContract records the customer's signature.
func HandleSignContract(c *fiber.Ctx) error {
	var input contracts.SignInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "Invalid request body"})
	}
	if input.Token == "" {
		input.Token = c.Query("token")
	}
	// Anonymous signers must present the token; only an operator session may
	// sign without one.
	if input.Token == "" && !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid or missing signing token"})
	}

	contract, err := contractService.Sign(c.Context(), c.Params("uuid"), input)
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contract signed successfully", "contract": contract})
}

// HandleContractPDF streams the contract document. Accessible with a valid
// signing token or an operator session.
func HandleContractPDF(c *fiber.Ctx) error {
	data, filename, err := contractService.Document(c.Context(), c.Params("uuid"), c.Query("token"), usercontext.IsLoggedIn(c))
	if err != nil {
		return lifecycleErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
