package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/caravantransport/caravan-crm/app/models"
	"gorm.io/gorm"
)

// ErrAlreadySigned is returned by MarkSigned when the contract is already in
// the signed state, including when a concurrent request won the race.
var ErrAlreadySigned = errors.New("contract already signed")

// ErrTokenConflict is returned by MarkSent when the stored signing token
// differs from the one being persisted. Tokens are immutable once set.
var ErrTokenConflict = errors.New("signing token already set")

// ErrNotSendable is returned by MarkSent when the contract is in a state the
// sent transition does not apply to, such as completed or cancelled.
var ErrNotSendable = errors.New("contract cannot be sent in its current state")

// contractRepository implements the ContractRepository interface
type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository instance
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

// Create inserts the contract and derives its number from the auto-increment
// primary key inside the same transaction. This keeps the CT-%06d format
// while making number assignment atomic under concurrent creation.
func (r *contractRepository) Create(contract *models.Contract) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contract).Error; err != nil {
			return err
		}
		contract.ContractNumber = fmt.Sprintf("CT-%06d", contract.ID)
		return tx.Model(&models.Contract{}).
			Where("id = ?", contract.ID).
			Update("contract_number", contract.ContractNumber).Error
	})
}

// GetByID retrieves a contract with its customer preloaded
func (r *contractRepository) GetByID(id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.Preload("Customer").First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetByUUID retrieves a contract by its public identifier
func (r *contractRepository) GetByUUID(uuid string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.Preload("Customer").Where("uuid = ?", uuid).First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// Update saves non-lifecycle fields of an existing contract
func (r *contractRepository) Update(contract *models.Contract) error {
	return r.db.Save(contract).Error
}

// Delete soft deletes a contract by its ID
func (r *contractRepository) Delete(id uint) error {
	return r.db.Delete(&models.Contract{}, id).Error
}

// List retrieves a paginated list of contracts, newest first
func (r *contractRepository) List(offset, limit int) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.Preload("Customer").Order("created_at DESC").Offset(offset).Limit(limit).Find(&contracts).Error
	return contracts, err
}

// ListByCustomer retrieves all contracts owned by a customer
func (r *contractRepository) ListByCustomer(customerID uint) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&contracts).Error
	return contracts, err
}

// Count returns the total number of contracts
func (r *contractRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Contract{}).Count(&count).Error
	return count, err
}

func (r *contractRepository) MarkSent(id uint, token, paymentLinkID, paymentLinkURL string) error {
	res := r.db.Model(&models.Contract{}).
		Where("id = ? AND status IN ? AND (signing_token = '' OR signing_token = ?)",
			id, []string{models.ContractStatusDraft, models.ContractStatusSent}, token).
		Updates(map[string]interface{}{
			"status":           models.ContractStatusSent,
			"signing_token":    token,
			"payment_link_id":  paymentLinkID,
			"payment_link_url": paymentLinkURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var current models.Contract
		if err := r.db.Select("status").First(&current, id).Error; err != nil {
			return err
		}
		if current.Status == models.ContractStatusSigned {
			return ErrAlreadySigned
		}
		if current.Status != models.ContractStatusDraft && current.Status != models.ContractStatusSent {
			return ErrNotSendable
		}
		return ErrTokenConflict
	}
	return nil
}

func (r *contractRepository) MarkSigned(id uint, signedBy, signatureURL string, signedAt time.Time) error {
	res := r.db.Model(&models.Contract{}).
		Where("id = ? AND status <> ? AND signed_by = ''", id, models.ContractStatusSigned).
		Updates(map[string]interface{}{
			"status":        models.ContractStatusSigned,
			"signed_by":     signedBy,
			"signed_at":     signedAt,
			"signature_url": signatureURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if exists, err := r.exists(id); err != nil {
			return err
		} else if !exists {
			return gorm.ErrRecordNotFound
		}
		return ErrAlreadySigned
	}
	return nil
}

func (r *contractRepository) MarkSignedByPayment(id uint, signedAt time.Time) error {
	// Signed-by-hand contracts keep their signature fields; 0 rows affected
	// is not an error here.
	return r.db.Model(&models.Contract{}).
		Where("id = ? AND status <> ?", id, models.ContractStatusSigned).
		Updates(map[string]interface{}{
			"status":    models.ContractStatusSigned,
			"signed_at": signedAt,
		}).Error
}

func (r *contractRepository) exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Contract{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
