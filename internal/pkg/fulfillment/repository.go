package fulfillment

import (
	"time"

	"github.com/payliv/fulfillment-service/app/models"
	"gorm.io/gorm"
)

// Repository provides the DB operations used by the fulfillment service.
type Repository interface {
	GetOrder(id string) (*models.Order, error)
	GetOrderWithStore(id string) (*models.Order, error)
	MarkOrderDelivered(id, providerTxID, provider string, at time.Time) error
	FinalizeOrderPayment(orderID, providerTxID, provider string) error
	CreateWebhookLog(entry *models.WebhookLog) error
	MarkWebhookProcessed(id uint, relatedOrderID string) error
	MarkWebhookError(id uint, message string) error
	CreateNotification(userID uint, title, message, link string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a fulfillment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) GetOrderWithStore(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Store").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) MarkOrderDelivered(id, providerTxID, provider string, at time.Time) error {
	updates := map[string]interface{}{
		"status":                  models.OrderStatusDelivered,
		"provider_transaction_id": providerTxID,
		"payment_provider":        provider,
		"paid_at":                 &at,
		"delivered_at":            &at,
	}
	tx := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FinalizeOrderPayment invokes the ledger stored procedure. The procedure is
// atomic and deduplicates on the provider transaction id, so replaying the
// same triple is a no-op on the ledger side.
func (r *gormRepository) FinalizeOrderPayment(orderID, providerTxID, provider string) error {
	return r.db.Exec("CALL finalize_order_payment(?, ?, ?)", orderID, providerTxID, provider).Error
}

func (r *gormRepository) CreateWebhookLog(entry *models.WebhookLog) error {
	return r.db.Create(entry).Error
}

func (r *gormRepository) MarkWebhookProcessed(id uint, relatedOrderID string) error {
	updates := map[string]interface{}{
		"status":           models.WebhookStatusProcessed,
		"related_order_id": relatedOrderID,
	}
	return r.db.Model(&models.WebhookLog{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) MarkWebhookError(id uint, message string) error {
	updates := map[string]interface{}{
		"status":        models.WebhookStatusError,
		"error_message": message,
	}
	return r.db.Model(&models.WebhookLog{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) CreateNotification(userID uint, title, message, link string) error {
	return models.CreateNotification(r.db, userID, "order", title, message, link)
}
