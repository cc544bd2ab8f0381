package contracts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/caravantransport/caravan-crm/app/models"
	"github.com/caravantransport/caravan-crm/app/repository"
	"github.com/caravantransport/caravan-crm/internal/pkg/mail"
	"github.com/caravantransport/caravan-crm/internal/pkg/payments"
	"github.com/caravantransport/caravan-crm/internal/pkg/pdf"
	"github.com/caravantransport/caravan-crm/internal/pkg/security"
)

// Config carries the deployment settings the lifecycle service needs.
// Everything is injected at construction time; the service never reads the
// environment.
type Config struct {
	AppURL     string
	AdminEmail string
}

// Service owns the contract state machine and the side effects of each
// transition: token issuance, payment link creation, document rendering and
// email dispatch. Persistence goes through conditional repository updates
// only, so concurrent requests on the same contract stay safe across
// processes.
type Service struct {
	contracts   repository.ContractRepository
	payments    repository.PaymentRepository
	events      repository.WebhookEventRepository
	provisioner payments.LinkProvisioner
	mailer      mail.Dispatcher
	cfg         Config

	render   func(pdf.ContractData) ([]byte, error)
	validate *validator.Validate
	now      func() time.Time
}

// NewService wires the lifecycle service from its collaborators.
func NewService(repos *repository.Repositories, provisioner payments.LinkProvisioner, mailer mail.Dispatcher, cfg Config) *Service {
	return &Service{
		contracts:   repos.Contract,
		payments:    repos.Payment,
		events:      repos.WebhookEvent,
		provisioner: provisioner,
		mailer:      mailer,
		cfg:         cfg,
		render:      pdf.RenderContract,
		validate:    validator.New(),
		now:         time.Now,
	}
}

// SendResult reports the outcome of the Send transition. EmailSent is data,
// not an error: the contract counts as sent once persisted, independent of
// delivery.
type SendResult struct {
	Contract       *models.Contract `json:"contract"`
	PaymentLinkURL string           `json:"payment_link,omitempty"`
	SignURL        string           `json:"sign_url"`
	EmailSent      bool             `json:"email_sent"`
	EmailError     string           `json:"email_error,omitempty"`
	Message        string           `json:"message"`
}

// Send transitions a draft (or already sent) contract to sent: provisions a
// payment link when an online amount is owed, issues the signing token on
// first send, persists, then renders and dispatches the invitation email.
func (s *Service) Send(ctx context.Context, contractUUID string) (*SendResult, error) {
	contract, err := s.loadContract(contractUUID)
	if err != nil {
		return nil, err
	}
	if contract.Customer == nil {
		return nil, ErrCustomerNotFound
	}
	// Sending applies to draft and sent contracts only; a signed contract
	// must never drop back to sent.
	if contract.IsSigned() {
		return nil, ErrAlreadySigned
	}

	// Zero online amount means the provisioner is never called; this is a
	// different code path from "processor unavailable".
	paymentLinkID := contract.PaymentLinkID
	paymentLinkURL := contract.PaymentLinkURL
	if amount := contract.OnlineAmount(); amount > 0 {
		link, err := s.provisioner.CreatePaymentLink(ctx, payments.AmountToCents(amount), contract.Currency, contract.Title, map[string]string{
			"contract_id": contract.UUID,
			"customer_id": contract.Customer.UUID,
		})
		if err != nil {
			if errors.Is(err, payments.ErrNotConfigured) {
				return nil, ErrProcessorNotConfigured
			}
			return nil, fmt.Errorf("create payment link: %w", err)
		}
		paymentLinkID = link.ID
		paymentLinkURL = link.URL
	}

	// First send issues the token; re-sends reuse it so outstanding links
	// keep working.
	token := contract.SigningToken
	if token == "" {
		token = security.GenerateSigningToken()
	}

	if err := s.contracts.MarkSent(contract.ID, token, paymentLinkID, paymentLinkURL); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadySigned):
			// Signed concurrently between the load above and the update.
			return nil, ErrAlreadySigned
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrContractNotFound
		default:
			return nil, fmt.Errorf("persist sent state: %w", err)
		}
	}
	contract.Status = models.ContractStatusSent
	contract.SigningToken = token
	contract.PaymentLinkID = paymentLinkID
	contract.PaymentLinkURL = paymentLinkURL

	result := s.dispatchInvite(ctx, contract)

	msg := "Contract sent successfully."
	if paymentLinkURL != "" {
		msg = "Contract sent successfully. Payment link created."
	}
	if !result.Sent {
		msg += " Email failed to send; check the SMTP configuration."
	} else {
		msg += " Email sent to customer."
	}

	return &SendResult{
		Contract:       contract,
		PaymentLinkURL: paymentLinkURL,
		SignURL:        s.signURL(contract),
		EmailSent:      result.Sent,
		EmailError:     result.Err,
		Message:        msg,
	}, nil
}

// ResendResult reports the outcome of re-dispatching the invitation.
type ResendResult struct {
	EmailSent  bool   `json:"email_sent"`
	EmailError string `json:"email_error,omitempty"`
	Message    string `json:"message"`
}

// Resend re-issues the invitation email without touching the token, the
// payment link or the status.
func (s *Service) Resend(ctx context.Context, contractUUID string) (*ResendResult, error) {
	contract, err := s.loadContract(contractUUID)
	if err != nil {
		return nil, err
	}
	if contract.Customer == nil {
		return nil, ErrCustomerNotFound
	}
	if contract.SigningToken == "" {
		return nil, ErrMissingToken
	}

	result := s.dispatchInvite(ctx, contract)
	if !result.Sent {
		return &ResendResult{EmailSent: false, EmailError: result.Err, Message: "Failed to resend contract email"}, nil
	}
	return &ResendResult{EmailSent: true, Message: "Contract email resent successfully"}, nil
}

// PublicContract is the redacted view returned to token holders. Internal
// identifiers, above all the signing token, never appear here.
type PublicContract struct {
	UUID              string        `json:"uuid"`
	ContractNumber    string        `json:"contract_number"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	TotalAmount       float64       `json:"total_amount"`
	Currency          string        `json:"currency"`
	DepositAmount     *float64      `json:"deposit_amount,omitempty"`
	PaymentMethod     string        `json:"payment_method"`
	TransportAmount   *float64      `json:"transport_amount,omitempty"`
	BrokerFeeAmount   *float64      `json:"broker_fee_amount,omitempty"`
	AmountPaidOnline  *float64      `json:"amount_paid_online,omitempty"`
	AmountPaidCOD     *float64      `json:"amount_paid_cod,omitempty"`
	Status            string        `json:"status"`
	SignedAt          *time.Time    `json:"signed_at,omitempty"`
	SignedBy          string        `json:"signed_by,omitempty"`
	SignatureURL      string        `json:"signature_url,omitempty"`
	PaymentLinkURL    string        `json:"payment_link_url,omitempty"`
	PickupDate        *time.Time    `json:"pickup_date,omitempty"`
	DeliveryDate      *time.Time    `json:"delivery_date,omitempty"`
	EstimatedDelivery *time.Time    `json:"estimated_delivery,omitempty"`
	Customer          PublicSigner  `json:"customer"`
}

// PublicSigner is the customer subset exposed on the public view.
type PublicSigner struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Verify gates public access to a contract by bearer token. On the first
// successful verification of a sent, unsigned contract an advisory "opened"
// alert goes to the admin address; its failure is logged and never surfaces.
func (s *Service) Verify(ctx context.Context, contractUUID, token string) (*PublicContract, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	contract, err := s.loadContract(contractUUID)
	if err != nil {
		return nil, err
	}
	if !security.VerifySigningToken(contract.SigningToken, token) {
		return nil, ErrUnauthorized
	}

	if contract.Status == models.ContractStatusSent && contract.SignedBy == "" && contract.Customer != nil {
		html := mail.ContractOpenedHTML(contract.ContractNumber, contract.Title, contract.Customer.FullName(), contract.Customer.Email, s.now())
		if res := s.mailer.Send(ctx, mail.Message{
			To:      s.cfg.AdminEmail,
			Subject: fmt.Sprintf("Contract %s Opened by Customer", contract.ContractNumber),
			HTML:    html,
		}); !res.Sent {
			log.Printf("contract %s: opened notification failed: %s", contract.ContractNumber, res.Err)
		}
	}

	return redact(contract), nil
}

// SignInput is the signature payload. When SignatureType is "draw" the
// Signature field carries image data; when "type" it is the typed name.
type SignInput struct {
	Signature     string `json:"signature" validate:"required"`
	SignatureType string `json:"signature_type" validate:"required,oneof=draw type"`
	SignedByName  string `json:"signed_by_name" validate:"max=200"`
	Token         string `json:"token"`
}

// Sign performs the sent-to-signed transition exactly once per contract. Two
// concurrent attempts resolve to one success and one ErrAlreadySigned through
// the repository's compare-and-swap.
func (s *Service) Sign(ctx context.Context, contractUUID string, in SignInput) (*models.Contract, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	contract, err := s.loadContract(contractUUID)
	if err != nil {
		return nil, err
	}
	if contract.Customer == nil {
		return nil, ErrCustomerNotFound
	}

	// Token is optional here: operators sign from an authenticated session,
	// customers come with the bearer token. When supplied it must match.
	if in.Token != "" && !security.VerifySigningToken(contract.SigningToken, in.Token) {
		return nil, ErrUnauthorized
	}

	if contract.IsSigned() {
		return nil, ErrAlreadySigned
	}

	signedBy := strings.TrimSpace(in.SignedByName)
	if signedBy == "" {
		signedBy = contract.Customer.FullName()
	}
	signatureURL := ""
	if in.SignatureType == "draw" {
		signatureURL = in.Signature
	}
	signedAt := s.now()

	if err := s.contracts.MarkSigned(contract.ID, signedBy, signatureURL, signedAt); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadySigned):
			return nil, ErrAlreadySigned
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrContractNotFound
		default:
			return nil, fmt.Errorf("persist signature: %w", err)
		}
	}
	contract.Status = models.ContractStatusSigned
	contract.SignedBy = signedBy
	contract.SignedAt = &signedAt
	contract.SignatureURL = signatureURL

	// Both confirmations are advisory: the signature is already persisted.
	viewURL := ""
	if contract.SigningToken != "" {
		viewURL = s.signURL(contract)
	}
	if res := s.mailer.Send(ctx, mail.Message{
		To:      contract.Customer.Email,
		Subject: fmt.Sprintf("Contract %s - Signed Successfully", contract.ContractNumber),
		HTML:    mail.SignedConfirmationHTML(contract.Customer.FullName(), contract.ContractNumber, viewURL),
	}); !res.Sent {
		log.Printf("contract %s: signed confirmation to customer failed: %s", contract.ContractNumber, res.Err)
	}
	if res := s.mailer.Send(ctx, mail.Message{
		To:      s.cfg.AdminEmail,
		Subject: fmt.Sprintf("Contract %s Signed by %s", contract.ContractNumber, signedBy),
		HTML:    mail.ContractSignedHTML(contract.ContractNumber, contract.Title, contract.Customer.FullName(), contract.Customer.Email, signedBy, signedAt),
	}); !res.Sent {
		log.Printf("contract %s: signed notification to admin failed: %s", contract.ContractNumber, res.Err)
	}

	return contract, nil
}

// Document renders the contract PDF for a token holder or an authenticated
// operator and returns the bytes with the download filename.
func (s *Service) Document(ctx context.Context, contractUUID, token string, operator bool) ([]byte, string, error) {
	contract, err := s.loadContract(contractUUID)
	if err != nil {
		return nil, "", err
	}
	if !operator && !security.VerifySigningToken(contract.SigningToken, token) {
		return nil, "", ErrUnauthorized
	}

	data, err := s.render(snapshot(contract))
	if err != nil {
		return nil, "", fmt.Errorf("render contract document: %w", err)
	}
	return data, fmt.Sprintf("contract-%s.pdf", contract.ContractNumber), nil
}

// PaymentEvent is the normalized payment-completed notification extracted
// from a processor webhook.
type PaymentEvent struct {
	EventID            string
	EventType          string
	ProviderPaymentID  string
	ProviderCustomerID string
	ContractUUID       string
	AmountCents        int64
	Currency           string
	PayloadJSON        string
	SignatureValid     bool
}

// HandlePaymentCompleted records the payment and flips the contract to
// signed as one logical unit. The operation is idempotent under at-least-once
// delivery: the event id and the provider payment id both deduplicate, so a
// redelivered webhook neither creates a second payment row nor re-sends the
// confirmation email. A payment arriving for an already signed contract is
// still recorded; the status update is a silent no-op.
func (s *Service) HandlePaymentCompleted(ctx context.Context, evt PaymentEvent) error {
	eventID := strings.TrimSpace(evt.EventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(evt.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	created, stored, err := s.events.CreateIfNotExists(&models.WebhookEvent{
		Provider:        "stripe",
		ProviderEventID: eventID,
		EventType:       evt.EventType,
		PayloadJSON:     evt.PayloadJSON,
		SignatureValid:  evt.SignatureValid,
	})
	if err != nil {
		return fmt.Errorf("record webhook event: %w", err)
	}
	if !created {
		log.Printf("webhook event %s already processed, ignoring redelivery", eventID)
		return nil
	}

	if evt.ContractUUID == "" {
		return s.events.MarkProcessed(stored.ID, "no contract metadata on event")
	}

	contract, err := s.loadContract(evt.ContractUUID)
	if err != nil {
		_ = s.events.MarkProcessed(stored.ID, err.Error())
		return err
	}

	paidAt := s.now()
	currency := strings.ToUpper(evt.Currency)
	if currency == "" {
		currency = contract.Currency
	}
	payment := &models.Payment{
		Amount:             float64(evt.AmountCents) / 100,
		Currency:           currency,
		Status:             models.PaymentStatusCompleted,
		Method:             "stripe",
		ProviderPaymentID:  evt.ProviderPaymentID,
		ProviderCustomerID: evt.ProviderCustomerID,
		PaidAt:             &paidAt,
		ContractID:         contract.ID,
		CustomerID:         contract.CustomerID,
	}
	paymentCreated, storedPayment, err := s.payments.CreateIfNotExists(payment)
	if err != nil {
		_ = s.events.MarkProcessed(stored.ID, err.Error())
		return fmt.Errorf("record payment: %w", err)
	}

	if err := s.contracts.MarkSignedByPayment(contract.ID, paidAt); err != nil {
		_ = s.events.MarkProcessed(stored.ID, err.Error())
		return fmt.Errorf("mark contract signed: %w", err)
	}

	if paymentCreated && contract.Customer != nil {
		html := mail.PaymentConfirmationHTML(contract.Customer.FullName(), storedPayment.Amount, storedPayment.Currency, storedPayment.ProviderPaymentID, contract.ContractNumber)
		if res := s.mailer.Send(ctx, mail.Message{
			To:      contract.Customer.Email,
			Subject: fmt.Sprintf("Payment Confirmation - Contract %s", contract.ContractNumber),
			HTML:    html,
		}); !res.Sent {
			log.Printf("contract %s: payment confirmation failed: %s", contract.ContractNumber, res.Err)
		}
	}

	return s.events.MarkProcessed(stored.ID, "")
}

func (s *Service) loadContract(contractUUID string) (*models.Contract, error) {
	contract, err := s.contracts.GetByUUID(contractUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return contract, nil
}

// dispatchInvite renders the PDF and sends the invitation email. A failed
// render is logged and the invite goes out without the attachment.
func (s *Service) dispatchInvite(ctx context.Context, contract *models.Contract) mail.Result {
	var attachments []mail.Attachment
	if data, err := s.render(snapshot(contract)); err != nil {
		log.Printf("contract %s: pdf render failed, sending invite without attachment: %v", contract.ContractNumber, err)
	} else {
		attachments = append(attachments, mail.Attachment{
			Filename:    fmt.Sprintf("contract-%s.pdf", contract.ContractNumber),
			ContentType: "application/pdf",
			Content:     data,
		})
	}

	html := mail.ContractInviteHTML(mail.ContractInvite{
		CustomerName:     contract.Customer.FullName(),
		ContractNumber:   contract.ContractNumber,
		ContractTitle:    contract.Title,
		TotalAmount:      contract.TotalAmount,
		Currency:         contract.Currency,
		SignURL:          s.signURL(contract),
		PaymentLinkURL:   contract.PaymentLinkURL,
		PDFURL:           s.pdfURL(contract),
		PaymentMethod:    contract.PaymentMethod,
		AmountPaidOnline: contract.AmountPaidOnline,
		AmountPaidCOD:    contract.AmountPaidCOD,
	})

	return s.mailer.Send(ctx, mail.Message{
		To:          contract.Customer.Email,
		Subject:     fmt.Sprintf("Contract %s - Please Review and Sign", contract.ContractNumber),
		HTML:        html,
		Attachments: attachments,
	})
}

func (s *Service) signURL(contract *models.Contract) string {
	return fmt.Sprintf("%s/sign/%s?token=%s", strings.TrimRight(s.cfg.AppURL, "/"), contract.UUID, contract.SigningToken)
}

func (s *Service) pdfURL(contract *models.Contract) string {
	return fmt.Sprintf("%s/api/contracts/%s/pdf?token=%s", strings.TrimRight(s.cfg.AppURL, "/"), contract.UUID, contract.SigningToken)
}

func snapshot(contract *models.Contract) pdf.ContractData {
	data := pdf.ContractData{
		ContractNumber:    contract.ContractNumber,
		Title:             contract.Title,
		Description:       models.TermsWithSignature(contract.Description, contract.SignedBy),
		TotalAmount:       contract.TotalAmount,
		Currency:          contract.Currency,
		DepositAmount:     contract.DepositAmount,
		PaymentMethod:     contract.PaymentMethod,
		TransportAmount:   contract.TransportAmount,
		BrokerFeeAmount:   contract.BrokerFeeAmount,
		AmountPaidOnline:  contract.AmountPaidOnline,
		AmountPaidCOD:     contract.AmountPaidCOD,
		SignedBy:          contract.SignedBy,
		SignedAt:          contract.SignedAt,
		PickupDate:        contract.PickupDate,
		DeliveryDate:      contract.DeliveryDate,
		EstimatedDelivery: contract.EstimatedDelivery,
	}
	if contract.Customer != nil {
		data.CustomerName = contract.Customer.FullName()
		data.CustomerEmail = contract.Customer.Email
	}
	return data
}

func redact(contract *models.Contract) *PublicContract {
	view := &PublicContract{
		UUID:              contract.UUID,
		ContractNumber:    contract.ContractNumber,
		Title:             contract.Title,
		Description:       contract.Description,
		TotalAmount:       contract.TotalAmount,
		Currency:          contract.Currency,
		DepositAmount:     contract.DepositAmount,
		PaymentMethod:     contract.PaymentMethod,
		TransportAmount:   contract.TransportAmount,
		BrokerFeeAmount:   contract.BrokerFeeAmount,
		AmountPaidOnline:  contract.AmountPaidOnline,
		AmountPaidCOD:     contract.AmountPaidCOD,
		Status:            contract.Status,
		SignedAt:          contract.SignedAt,
		SignedBy:          contract.SignedBy,
		SignatureURL:      contract.SignatureURL,
		PaymentLinkURL:    contract.PaymentLinkURL,
		PickupDate:        contract.PickupDate,
		DeliveryDate:      contract.DeliveryDate,
		EstimatedDelivery: contract.EstimatedDelivery,
	}
	if contract.Customer != nil {
		view.Customer = PublicSigner{
			FirstName: contract.Customer.FirstName,
			LastName:  contract.Customer.LastName,
			Email:     contract.Customer.Email,
		}
	}
	return view
}
