package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/caravantransport/caravan-crm/internal/pkg/contracts"
	"github.com/caravantransport/caravan-crm/internal/pkg/payments"
)

var webhookConfig payments.Config

// InitializeWebhookController injects the processor credentials used for
// webhook signature verification.
func InitializeWebhookController(cfg payments.Config) {
	webhookConfig = cfg
}

// HandleStripeWebhook ingests payment processor notifications. The raw body
// is verified against the Stripe-Signature header before any parsing; when no
// webhook secret is configured the event is processed but stored with
// signature_valid=false.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	signatureValid := false
	if webhookConfig.WebhookSecret != "" {
		if !payments.VerifyWebhookSignature(payload, c.Get("Stripe-Signature"), webhookConfig.WebhookSecret, payments.DefaultSignatureTolerance) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature", "message": "Webhook signature verification failed"})
		}
		signatureValid = true
	}

	event, err := payments.ParseEvent(payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload", "message": "Could not parse webhook payload"})
	}

	if event.Type != "checkout.session.completed" {
		// Acknowledge everything else so the processor stops redelivering.
		return c.JSON(fiber.Map{"received": true})
	}

	session, err := event.CheckoutSession()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload", "message": "Could not parse checkout session"})
	}

	err = contractService.HandlePaymentCompleted(c.Context(), contracts.PaymentEvent{
		EventID:            event.ID,
		EventType:          event.Type,
		ProviderPaymentID:  session.ID,
		ProviderCustomerID: session.Customer,
		ContractUUID:       session.Metadata["contract_id"],
		AmountCents:        session.AmountTotal,
		Currency:           session.Currency,
		PayloadJSON:        string(payload),
		SignatureValid:     signatureValid,
	})
	if err != nil {
		if errors.Is(err, contracts.ErrContractNotFound) {
			// A retry can never succeed; acknowledge and keep the stored
			// event for manual review.
			log.Printf("webhook %s references unknown contract %s", event.ID, session.Metadata["contract_id"])
			return c.JSON(fiber.Map{"received": true, "warning": "unknown contract"})
		}
		// Transient failure: signal the processor to redeliver.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to process webhook"})
	}

	return c.JSON(fiber.Map{"received": true})
}
