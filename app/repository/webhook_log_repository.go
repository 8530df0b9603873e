package repository

import (
	"github.com/payliv/fulfillment-service/app/models"
	"gorm.io/gorm"
)

type webhookLogRepository struct {
	db *gorm.DB
}

// NewWebhookLogRepository creates a new webhook log repository instance
func NewWebhookLogRepository(db *gorm.DB) WebhookLogRepository {
	return &webhookLogRepository{db: db}
}

// GetByID retrieves a single audit log entry
func (r *webhookLogRepository) GetByID(id uint) (*models.WebhookLog, error) {
	var entry models.WebhookLog
	err := r.db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListRecent returns the newest audit log entries
func (r *webhookLogRepository) ListRecent(limit int) ([]models.WebhookLog, error) {
	var entries []models.WebhookLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// ListByStatus returns audit log entries filtered by processing status
func (r *webhookLogRepository) ListByStatus(status string, limit int) ([]models.WebhookLog, error) {
	var entries []models.WebhookLog
	err := r.db.Where("status = ?", status).Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
