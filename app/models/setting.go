package models

import "time"

// Setting represents a single system setting row.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:setting_key;size:255;not null;uniqueIndex" json:"key" validate:"required,min=1,max=255"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:50;not null" json:"type" validate:"required"` // string, boolean, integer, float
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting keys consumed by the fulfillment pipeline.
const (
	SettingWhatsAppSenderNumber    = "whatsapp_sender_number"
	SettingWhatsAppAPIURL          = "whatsapp_api_url"
	SettingWhatsAppCustomerMessage = "whatsapp_template_customer"
	SettingWhatsAppSellerMessage   = "whatsapp_template_seller"
)

// FulfillmentSettings is the in-memory view of the WhatsApp channel
// configuration assembled from setting rows.
type FulfillmentSettings struct {
	WhatsAppSenderNumber string `json:"whatsapp_sender_number"`
	WhatsAppAPIURL       string `json:"whatsapp_api_url"`
	CustomerTemplate     string `json:"whatsapp_template_customer"`
	SellerTemplate       string `json:"whatsapp_template_seller"`
}

// Apply copies a setting row into the assembled settings view.
func (fs *FulfillmentSettings) Apply(setting Setting) {
	switch setting.Key {
	case SettingWhatsAppSenderNumber:
		fs.WhatsAppSenderNumber = setting.Value
	case SettingWhatsAppAPIURL:
		fs.WhatsAppAPIURL = setting.Value
	case SettingWhatsAppCustomerMessage:
		fs.CustomerTemplate = setting.Value
	case SettingWhatsAppSellerMessage:
		fs.SellerTemplate = setting.Value
	}
}
