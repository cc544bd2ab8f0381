package repository

import (
	"strings"

	"github.com/caravantransport/caravan-crm/app/models"
	"gorm.io/gorm"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create creates a new customer in the database
func (r *customerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// GetByID retrieves a customer by their ID
func (r *customerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByUUID retrieves a customer by their public identifier
func (r *customerRepository) GetByUUID(uuid string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("uuid = ?", uuid).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByEmail retrieves a customer by their email address
func (r *customerRepository) GetByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("email = ?", email).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update updates an existing customer in the database
func (r *customerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// Delete soft deletes a customer by their ID
func (r *customerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Customer{}, id).Error
}

// List retrieves a paginated list of customers
func (r *customerRepository) List(offset, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&customers).Error
	return customers, err
}

// Count returns the total number of customers
func (r *customerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Count(&count).Error
	return count, err
}

// Search searches for customers by name or email
func (r *customerRepository) Search(query string) ([]models.Customer, error) {
	var customers []models.Customer
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", searchPattern, searchPattern, searchPattern).Find(&customers).Error
	return customers, err
}
