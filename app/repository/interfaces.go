package repository

import (
	"github.com/payliv/fulfillment-service/app/models"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order-related database operations
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	GetByIDWithStore(id string) (*models.Order, error)
	GetByProviderTransactionID(provider, transactionID string) (*models.Order, error)
}

// UserRepository defines the interface for customer account operations
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
}

// SettingRepository defines the interface for fulfillment configuration
type SettingRepository interface {
	GetFulfillmentSettings() (*models.FulfillmentSettings, error)
}

// WebhookLogRepository defines the interface for webhook audit log queries
// used by operators (the ingest-time lifecycle lives in the fulfillment
// service's own repository).
type WebhookLogRepository interface {
	GetByID(id uint) (*models.WebhookLog, error)
	ListRecent(limit int) ([]models.WebhookLog, error)
	ListByStatus(status string, limit int) ([]models.WebhookLog, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Order      OrderRepository
	User       UserRepository
	Setting    SettingRepository
	WebhookLog WebhookLogRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:      NewOrderRepository(db),
		User:       NewUserRepository(db),
		Setting:    NewSettingRepository(db),
		WebhookLog: NewWebhookLogRepository(db),
	}
}
