package repository

import (
	"encoding/json"
	"log"
	"time"

	"github.com/payliv/fulfillment-service/app/models"
	"github.com/payliv/fulfillment-service/internal/pkg/cache"
	"gorm.io/gorm"
)

const (
	fulfillmentSettingsCacheKey = "fulfillment:settings"
	fulfillmentSettingsCacheTTL = 5 * time.Minute
)

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// GetFulfillmentSettings assembles the WhatsApp channel configuration from the
// settings table. The assembled view is cached in Redis; a cache failure only
// costs the extra DB roundtrip.
func (r *settingRepository) GetFulfillmentSettings() (*models.FulfillmentSettings, error) {
	if cached, err := cache.Get(fulfillmentSettingsCacheKey); err == nil && cached != "" {
		var fs models.FulfillmentSettings
		if err := json.Unmarshal([]byte(cached), &fs); err == nil {
			return &fs, nil
		}
	}

	var settings []models.Setting
	if err := r.db.Where("setting_key LIKE ?", "whatsapp_%").Find(&settings).Error; err != nil {
		return nil, err
	}

	fs := &models.FulfillmentSettings{}
	for _, setting := range settings {
		fs.Apply(setting)
	}

	if raw, err := json.Marshal(fs); err == nil {
		if err := cache.Set(fulfillmentSettingsCacheKey, string(raw), fulfillmentSettingsCacheTTL); err != nil {
			log.Printf("settings cache write failed: %v", err)
		}
	}

	return fs, nil
}
