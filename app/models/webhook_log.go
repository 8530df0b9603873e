package models

import "time"

const (
	WebhookStatusReceived  = "received"
	WebhookStatusProcessed = "processed"
	WebhookStatusError     = "error"
)

// WebhookLog is the audit trail of inbound payment webhooks. Every request is
// persisted before processing; the row is amended exactly once with the
// outcome.
type WebhookLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Provider       string    `gorm:"type:varchar(50);index" json:"provider"`
	TransactionID  string    `gorm:"type:varchar(100);index" json:"transaction_id"`
	Payload        string    `gorm:"type:longtext" json:"payload"`
	Status         string    `gorm:"type:varchar(20);default:'received';index" json:"status"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message,omitempty"`
	RelatedOrderID string    `gorm:"type:varchar(36);index" json:"related_order_id,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
