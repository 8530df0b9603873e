package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/payliv/fulfillment-service/app/models"
	"gorm.io/gorm"
)

type fakeOrderRepo struct {
	orders map[string]*models.Order
}

func (r *fakeOrderRepo) GetByID(id string) (*models.Order, error) {
	return r.GetByIDWithStore(id)
}

func (r *fakeOrderRepo) GetByIDWithStore(id string) (*models.Order, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) GetByProviderTransactionID(provider, transactionID string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeSettingRepo struct {
	settings *models.FulfillmentSettings
	err      error
}

func (r *fakeSettingRepo) GetFulfillmentSettings() (*models.FulfillmentSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.settings, nil
}

type recordedSender struct {
	to   string
	body string
	err  error
}

func (s *recordedSender) SendMessage(ctx context.Context, to string, body string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.to = to
	s.body = body
	return "msg_42", nil
}

func testOrder() *models.Order {
	return &models.Order{
		ID:       "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		StoreID:  7,
		Store:    models.Store{ID: 7, Name: "Boutique Digitale", UserID: 42},
		Status:   models.OrderStatusPending,
		Total:    49.99,
		Currency: "XOF",
		Customer: models.CustomerSnapshot{
			Name:  "Awa Diop",
			Email: "awa@example.com",
			Phone: "+221 77 123 45 67",
		},
	}
}

func newTestNotifier(order *models.Order, settings *models.FulfillmentSettings, sender *recordedSender) *Notifier {
	orders := &fakeOrderRepo{orders: map[string]*models.Order{}}
	if order != nil {
		orders.orders[order.ID] = order
	}
	n := NewNotifier(orders, &fakeSettingRepo{settings: settings})
	n.newSender = func(*models.FulfillmentSettings) MessageSender { return sender }
	return n
}

func configuredSettings() *models.FulfillmentSettings {
	return &models.FulfillmentSettings{
		WhatsAppSenderNumber: "221770000000",
		WhatsAppAPIURL:       "https://api.ycloud.example",
	}
}

func TestSendOrderNotification_Customer(t *testing.T) {
	order := testOrder()
	sender := &recordedSender{}
	n := newTestNotifier(order, configuredSettings(), sender)

	result, err := n.SendOrderNotification(context.Background(), order.ID, RecipientCustomer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Sent {
		t.Fatalf("expected the message to be sent")
	}
	if result.MessageID != "msg_42" {
		t.Fatalf("expected provider message id, got %q", result.MessageID)
	}
	if result.Recipient != "221771234567" {
		t.Fatalf("expected normalized recipient, got %q", result.Recipient)
	}
	for _, want := range []string{"Awa Diop", order.ShortRef(), "Boutique Digitale", "49.99", "XOF"} {
		if !strings.Contains(sender.body, want) {
			t.Fatalf("expected message to contain %q, got %q", want, sender.body)
		}
	}
}

func TestSendOrderNotification_CustomTemplate(t *testing.T) {
	order := testOrder()
	sender := &recordedSender{}
	settings := configuredSettings()
	settings.CustomerTemplate = "Commande {order_ref}: {amount} {currency}"
	n := newTestNotifier(order, settings, sender)

	if _, err := n.SendOrderNotification(context.Background(), order.ID, RecipientCustomer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Commande " + order.ShortRef() + ": 49.99 XOF"
	if sender.body != want {
		t.Fatalf("expected %q, got %q", want, sender.body)
	}
}

func TestSendOrderNotification_Seller(t *testing.T) {
	order := testOrder()
	order.Store.Settings.WhatsAppNumber = "+221 78 999 00 11"
	sender := &recordedSender{}
	n := newTestNotifier(order, configuredSettings(), sender)

	result, err := n.SendOrderNotification(context.Background(), order.ID, RecipientSeller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Sent || result.Recipient != "221789990011" {
		t.Fatalf("expected a send to the seller number, got %+v", result)
	}
	if !strings.Contains(sender.body, "Awa Diop") {
		t.Fatalf("expected seller message to name the customer, got %q", sender.body)
	}
}

func TestSendOrderNotification_SellerWithoutNumber(t *testing.T) {
	order := testOrder()
	sender := &recordedSender{}
	n := newTestNotifier(order, configuredSettings(), sender)

	result, err := n.SendOrderNotification(context.Background(), order.ID, RecipientSeller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent {
		t.Fatalf("expected a no-op when the store has no WhatsApp number")
	}
	if sender.to != "" {
		t.Fatalf("expected no send attempt, got one to %q", sender.to)
	}
}

func TestSendOrderNotification_OrderNotFound(t *testing.T) {
	n := newTestNotifier(nil, configuredSettings(), &recordedSender{})

	_, err := n.SendOrderNotification(context.Background(), "missing", RecipientCustomer)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestSendOrderNotification_SenderNumberMissing(t *testing.T) {
	order := testOrder()
	n := newTestNotifier(order, &models.FulfillmentSettings{}, &recordedSender{})

	_, err := n.SendOrderNotification(context.Background(), order.ID, RecipientCustomer)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendOrderNotification_UnknownRecipientType(t *testing.T) {
	order := testOrder()
	n := newTestNotifier(order, configuredSettings(), &recordedSender{})

	_, err := n.SendOrderNotification(context.Background(), order.ID, RecipientType("admin"))
	if !errors.Is(err, ErrUnknownRecipientType) {
		t.Fatalf("expected ErrUnknownRecipientType, got %v", err)
	}
}

func TestSendOrderNotification_SendFailure(t *testing.T) {
	order := testOrder()
	sender := &recordedSender{err: errors.New("YCloud API error: quota exceeded")}
	n := newTestNotifier(order, configuredSettings(), sender)

	if _, err := n.SendOrderNotification(context.Background(), order.ID, RecipientCustomer); err == nil {
		t.Fatalf("expected the transport error to surface")
	}
}
