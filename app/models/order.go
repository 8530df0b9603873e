package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// CustomerSnapshot is the buyer contact data captured at checkout time. It is
// embedded in the order so fulfillment never depends on a mutable profile.
type CustomerSnapshot struct {
	Name  string `gorm:"column:customer_name;type:varchar(150)" json:"name"`
	Email string `gorm:"column:customer_email;type:varchar(200)" json:"email"`
	Phone string `gorm:"column:customer_phone;type:varchar(50)" json:"phone"`
}

type Order struct {
	ID                    string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StoreID               uint             `gorm:"index;not null" json:"store_id" validate:"required"`
	Store                 Store            `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Status                string           `gorm:"type:varchar(20);default:'pending';index" json:"status" validate:"oneof=pending paid delivered cancelled"`
	Total                 float64          `gorm:"type:decimal(12,2);not null" json:"total" validate:"gte=0"`
	Currency              string           `gorm:"type:varchar(10);default:'XOF'" json:"currency" validate:"required,min=3,max=10"`
	HasDigital            bool             `gorm:"default:false" json:"has_digital"`
	Customer              CustomerSnapshot `gorm:"embedded" json:"customer"`
	PaymentProvider       string           `gorm:"type:varchar(50)" json:"payment_provider"`
	ProviderTransactionID string           `gorm:"type:varchar(100);index" json:"provider_transaction_id"`
	PaidAt                *time.Time       `gorm:"type:timestamp;default:null" json:"paid_at"`
	DeliveredAt           *time.Time       `gorm:"type:timestamp;default:null" json:"delivered_at"`
	CreatedAt             time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate assigns the opaque order identifier.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (o *Order) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

// IsFinalized reports whether the order already went through payment
// finalization.
func (o *Order) IsFinalized() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusPaid
}

// ShortRef is the human-facing order reference used in messages and emails.
func (o *Order) ShortRef() string {
	id := strings.ReplaceAll(o.ID, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
