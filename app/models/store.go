package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// StoreSettings is the per-store configuration blob stored as JSON.
type StoreSettings struct {
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
}

func (s StoreSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StoreSettings) Scan(value interface{}) error {
	if value == nil {
		*s = StoreSettings{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for StoreSettings")
	}

	return json.Unmarshal(raw, s)
}

type Store struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	UserID    uint           `gorm:"index;not null" json:"user_id" validate:"required"`
	Settings  StoreSettings  `gorm:"type:json" json:"settings"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
