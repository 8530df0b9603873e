package repository

import (
	"github.com/payliv/fulfillment-service/app/models"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// GetByID retrieves an order by its opaque identifier
func (r *orderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByIDWithStore retrieves an order together with its owning store
func (r *orderRepository) GetByIDWithStore(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Store").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByProviderTransactionID resolves an order from a provider transaction reference
func (r *orderRepository) GetByProviderTransactionID(provider, transactionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("payment_provider = ? AND provider_transaction_id = ?", provider, transactionID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
