package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment is created from the payment processor's webhook notification.
// ProviderPaymentID carries a unique index so that redelivered webhook
// events can never produce a second row for the same payment.
type Payment struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	UUID     string  `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status   string  `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Method   string  `gorm:"type:varchar(20);default:'stripe'" json:"method"`

	ProviderPaymentID  string `gorm:"type:varchar(191);uniqueIndex;not null" json:"provider_payment_id"`
	ProviderCustomerID string `gorm:"type:varchar(191);default:''" json:"provider_customer_id,omitempty"`

	PaidAt *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`

	ContractID uint      `gorm:"index;not null" json:"contract_id"`
	Contract   *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}
