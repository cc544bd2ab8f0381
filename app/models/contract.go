package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContractStatusDraft     = "draft"
	ContractStatusSent      = "sent"
	ContractStatusSigned    = "signed"
	ContractStatusCompleted = "completed"
	ContractStatusCancelled = "cancelled"

	PaymentMethodCreditCard = "credit_card"
	PaymentMethodCOD        = "cod"
	PaymentMethodSplit      = "split"
)

// Contract is the broker-customer transportation agreement. Monetary fields
// other than TotalAmount are pointers: absent means "not applicable to the
// chosen payment method", not zero.
type Contract struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UUID           string `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	ContractNumber string `gorm:"type:varchar(20);uniqueIndex" json:"contract_number"`
	Title          string `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=1,max=200"`
	Description    string `gorm:"type:longtext" json:"description"`

	TotalAmount      float64  `gorm:"not null" json:"total_amount" validate:"gte=0"`
	DepositAmount    *float64 `gorm:"default:null" json:"deposit_amount,omitempty"`
	Currency         string   `gorm:"type:varchar(3);default:'USD'" json:"currency" validate:"len=3"`
	PaymentMethod    string   `gorm:"type:varchar(20);default:'credit_card'" json:"payment_method" validate:"oneof=credit_card cod split"`
	TransportAmount  *float64 `gorm:"default:null" json:"transport_amount,omitempty"`
	BrokerFeeAmount  *float64 `gorm:"default:null" json:"broker_fee_amount,omitempty"`
	AmountPaidOnline *float64 `gorm:"default:null" json:"amount_paid_online,omitempty"`
	AmountPaidCOD    *float64 `gorm:"default:null" json:"amount_paid_cod,omitempty"`

	PickupDate        *time.Time `gorm:"type:timestamp;default:null" json:"pickup_date,omitempty"`
	DeliveryDate      *time.Time `gorm:"type:timestamp;default:null" json:"delivery_date,omitempty"`
	EstimatedDelivery *time.Time `gorm:"type:timestamp;default:null" json:"estimated_delivery,omitempty"`

	Status string `gorm:"type:varchar(20);default:'draft';index" json:"status" validate:"oneof=draft sent signed completed cancelled"`

	// SigningToken is the bearer credential for the public sign/verify/pdf
	// endpoints. It is set once on first send and never regenerated; it must
	// never appear in any JSON response.
	SigningToken string     `gorm:"type:varchar(100);default:''" json:"-"`
	SignedBy     string     `gorm:"type:varchar(200);default:''" json:"signed_by,omitempty"`
	SignedAt     *time.Time `gorm:"type:timestamp;default:null" json:"signed_at,omitempty"`
	SignatureURL string     `gorm:"type:longtext" json:"signature_url,omitempty"`

	PaymentLinkID  string `gorm:"type:varchar(100);default:''" json:"payment_link_id,omitempty"`
	PaymentLinkURL string `gorm:"type:varchar(255);default:''" json:"payment_link_url,omitempty"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

func (c *Contract) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// OnlineAmount returns the amount that must be collected through the payment
// processor for this contract. For split payments this is the agreed online
// portion exactly, never derived from total minus COD.
func (c *Contract) OnlineAmount() float64 {
	switch c.PaymentMethod {
	case PaymentMethodCreditCard:
		return c.TotalAmount
	case PaymentMethodSplit:
		if c.AmountPaidOnline != nil {
			return *c.AmountPaidOnline
		}
		return 0
	default:
		// Cash on delivery: nothing is collected online.
		return 0
	}
}

// IsSigned reports whether the contract has already been signed.
func (c *Contract) IsSigned() bool {
	return c.Status == ContractStatusSigned
}

// PaymentMethodLabel returns the human readable payment method used in the
// PDF and email templates.
func (c *Contract) PaymentMethodLabel() string {
	switch c.PaymentMethod {
	case PaymentMethodCOD:
		return "Cash on Delivery (COD)"
	case PaymentMethodSplit:
		return "Split Payment"
	default:
		return "Credit Card (Full Payment Online)"
	}
}
