package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/payliv/fulfillment-service/app/models"
	"github.com/payliv/fulfillment-service/app/repository"
	"gorm.io/gorm"
)

type RecipientType string

const (
	RecipientCustomer RecipientType = "customer"
	RecipientSeller   RecipientType = "seller"
)

// ErrOrderNotFound mirrors the fulfillment taxonomy for callers that only
// import this package.
var ErrOrderNotFound = errors.New("order not found")

// ErrUnknownRecipientType is returned for recipient types outside customer/seller.
var ErrUnknownRecipientType = errors.New("unknown recipient type")

// MessageSender abstracts the outbound channel so the selector can be tested
// without a live messaging API.
type MessageSender interface {
	SendMessage(ctx context.Context, to string, body string) (string, error)
}

// SendResult reports whether a message went out and to whom. Sent=false with a
// nil error means no recipient number is configured, which is an expected
// state and not a fault.
type SendResult struct {
	Sent      bool
	Recipient string
	MessageID string
}

// Notifier resolves the recipient and message for an order notification and
// dispatches it over the configured channel.
type Notifier struct {
	orders   repository.OrderRepository
	settings repository.SettingRepository

	// newSender is swappable in tests; defaults to the YCloud client.
	newSender func(*models.FulfillmentSettings) MessageSender
}

func NewNotifier(orders repository.OrderRepository, settings repository.SettingRepository) *Notifier {
	return &Notifier{
		orders:   orders,
		settings: settings,
		newSender: func(fs *models.FulfillmentSettings) MessageSender {
			return NewClientFromSettings(fs)
		},
	}
}

// SendOrderNotification renders and sends the order message for the given
// recipient type. Missing recipient numbers yield a no-op success.
func (n *Notifier) SendOrderNotification(ctx context.Context, orderID string, recipientType RecipientType) (*SendResult, error) {
	order, err := n.orders.GetByIDWithStore(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	settings, err := n.settings.GetFulfillmentSettings()
	if err != nil {
		return nil, err
	}
	if settings.WhatsAppSenderNumber == "" {
		return nil, fmt.Errorf("%w: sender number missing", ErrNotConfigured)
	}

	recipient, message, err := resolveRecipient(order, settings, recipientType)
	if err != nil {
		return nil, err
	}
	if recipient == "" {
		return &SendResult{Sent: false}, nil
	}

	messageID, err := n.newSender(settings).SendMessage(ctx, recipient, message)
	if err != nil {
		return nil, err
	}

	return &SendResult{Sent: true, Recipient: NormalizeRecipient(recipient), MessageID: messageID}, nil
}

func resolveRecipient(order *models.Order, settings *models.FulfillmentSettings, recipientType RecipientType) (string, string, error) {
	switch recipientType {
	case RecipientCustomer:
		template := settings.CustomerTemplate
		if template == "" {
			template = defaultCustomerTemplate
		}
		return order.Customer.Phone, renderTemplate(template, order), nil
	case RecipientSeller:
		number := order.Store.Settings.WhatsAppNumber
		if number == "" {
			return "", "", nil
		}
		template := settings.SellerTemplate
		if template == "" {
			template = defaultSellerTemplate
		}
		return number, renderTemplate(template, order), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownRecipientType, recipientType)
	}
}

const (
	defaultCustomerTemplate = "Bonjour {customer_name}, votre commande #{order_ref} sur {store_name} a été confirmée. Montant: {amount} {currency}. Merci !"
	defaultSellerTemplate   = "Nouvelle commande ! Client: {customer_name}, Montant: {amount} {currency}. Consultez votre tableau de bord: https://payliv.shop/orders"
)

func renderTemplate(template string, order *models.Order) string {
	replacer := strings.NewReplacer(
		"{customer_name}", order.Customer.Name,
		"{order_ref}", order.ShortRef(),
		"{store_name}", order.Store.Name,
		"{amount}", fmt.Sprintf("%.2f", order.Total),
		"{currency}", order.Currency,
	)
	return replacer.Replace(template)
}
