package fulfillment

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// ProviderAPIWeb is the payment provider this service currently ingests.
	ProviderAPIWeb = "apiweb"

	// PaymentStatusPaid is the provider status value that confirms payment.
	PaymentStatusPaid = "paid"
)

// webhookPayload is the provider wire shape. Field names follow the provider
// contract and are not normalized here.
type webhookPayload struct {
	PersonalInfo []struct {
		OrderID string `json:"orderId"`
	} `json:"personal_Info"`
	Status        string `json:"statut"`
	TransactionID string `json:"transaction_id"`
}

// WebhookEvent is the validated, typed form of an inbound payment webhook.
// Nothing past the ingestion boundary touches the raw payload again.
type WebhookEvent struct {
	OrderID       string
	Status        string
	TransactionID string
}

// IsPaid reports whether the event confirms a successful payment.
func (e WebhookEvent) IsPaid() bool {
	return e.Status == PaymentStatusPaid
}

// ParseWebhookPayload decodes a provider payload into a typed event. A decode
// failure or a missing order identifier yields ErrMalformedWebhook; the
// partially-read event is still returned so the audit log can key on the
// transaction id.
func ParseWebhookPayload(raw []byte) (WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}

	ev := WebhookEvent{
		Status:        strings.TrimSpace(p.Status),
		TransactionID: strings.TrimSpace(p.TransactionID),
	}
	if len(p.PersonalInfo) > 0 {
		ev.OrderID = strings.TrimSpace(p.PersonalInfo[0].OrderID)
	}
	if ev.OrderID == "" {
		return ev, fmt.Errorf("%w: order id not found in webhook data", ErrMalformedWebhook)
	}
	return ev, nil
}
