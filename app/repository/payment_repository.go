package repository

import (
	"github.com/caravantransport/caravan-crm/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// CreateIfNotExists inserts the payment unless the provider payment id was
// seen before. Redelivered webhooks therefore never produce duplicates.
func (r *paymentRepository) CreateIfNotExists(payment *models.Payment) (bool, *models.Payment, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider_payment_id"},
		},
		DoNothing: true,
	}).Create(payment)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.Payment
	if err := r.db.Where("provider_payment_id = ?", payment.ProviderPaymentID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *paymentRepository) GetByProviderPaymentID(providerPaymentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("provider_payment_id = ?", providerPaymentID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List retrieves a paginated list of payments, newest first
func (r *paymentRepository) List(offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Preload("Contract").Preload("Customer").Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	return payments, err
}

// ListByContract retrieves all payments recorded against a contract
func (r *paymentRepository) ListByContract(contractID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("contract_id = ?", contractID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

// Count returns the total number of payments
func (r *paymentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).Count(&count).Error
	return count, err
}

// SumCompleted returns the total completed payment volume
func (r *paymentRepository) SumCompleted() (float64, error) {
	var total float64
	err := r.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
