package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UUID      string `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name" validate:"required,min=1,max=100"`
	Email     string `gorm:"type:varchar(200);index" json:"email" validate:"required,email,max=200"`
	Phone     string `gorm:"type:varchar(50)" json:"phone" validate:"max=50"`

	// Shipment profile
	PickupAddress   string `gorm:"type:varchar(255)" json:"pickup_address" validate:"max=255"`
	DeliveryAddress string `gorm:"type:varchar(255)" json:"delivery_address" validate:"max=255"`
	VehicleMake     string `gorm:"type:varchar(100)" json:"vehicle_make" validate:"max=100"`
	VehicleModel    string `gorm:"type:varchar(100)" json:"vehicle_model" validate:"max=100"`
	VehicleYear     int    `gorm:"default:0" json:"vehicle_year"`
	Notes           string `gorm:"type:text" json:"notes"`

	Contracts []Contract `gorm:"foreignKey:CustomerID" json:"contracts,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:CustomerID" json:"payments,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

func (c *Customer) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// FullName returns the customer's display name used on contracts and emails.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
