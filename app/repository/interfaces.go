package repository

import (
	"time"

	"github.com/caravantransport/caravan-crm/app/models"
)

// ContractRepository defines the interface for contract-related database
// operations. Lifecycle fields are only ever mutated through the conditional
// Mark* methods; blind read-modify-write saves are not part of the contract.
type ContractRepository interface {
	Create(contract *models.Contract) error
	GetByID(id uint) (*models.Contract, error)
	GetByUUID(uuid string) (*models.Contract, error)
	Update(contract *models.Contract) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Contract, error)
	ListByCustomer(customerID uint) ([]models.Contract, error)
	Count() (int64, error)

	// MarkSent flips the contract to sent and persists the payment link
	// fields. The signing token is written only when none is stored yet, so
	// a re-send can never rotate an already distributed token.
	MarkSent(id uint, token, paymentLinkID, paymentLinkURL string) error

	// MarkSigned performs the signed transition as a compare-and-swap on the
	// unsigned state. It returns ErrAlreadySigned when another request won
	// the race or the contract was signed before.
	MarkSigned(id uint, signedBy, signatureURL string, signedAt time.Time) error

	// MarkSignedByPayment flips an unsigned contract to signed after an
	// online payment completed. Signing state already present is left
	// untouched and no error is returned.
	MarkSignedByPayment(id uint, signedAt time.Time) error
}

// CustomerRepository defines the interface for customer-related database operations
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id uint) (*models.Customer, error)
	GetByUUID(uuid string) (*models.Customer, error)
	GetByEmail(email string) (*models.Customer, error)
	Update(customer *models.Customer) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Customer, error)
	Count() (int64, error)
	Search(query string) ([]models.Customer, error)
}

// PaymentRepository defines the interface for payment records created from
// processor webhooks.
type PaymentRepository interface {
	// CreateIfNotExists inserts the payment unless a row with the same
	// provider payment id already exists. The bool reports whether a new row
	// was created; the returned payment is the stored row either way.
	CreateIfNotExists(payment *models.Payment) (bool, *models.Payment, error)
	GetByProviderPaymentID(providerPaymentID string) (*models.Payment, error)
	List(offset, limit int) ([]models.Payment, error)
	ListByContract(contractID uint) ([]models.Payment, error)
	Count() (int64, error)
	SumCompleted() (float64, error)
}

// WebhookEventRepository stores processor webhook deliveries for idempotent
// processing.
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// UserRepository defines the interface for operator account operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}
