package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/payliv/fulfillment-service/app/models"
	"github.com/payliv/fulfillment-service/app/repository"
	"github.com/payliv/fulfillment-service/internal/pkg/env"
	"github.com/payliv/fulfillment-service/internal/pkg/mail"
	"gorm.io/gorm"
)

// Mailer is the transactional email contract used by the pipeline.
type Mailer func(to, subject, htmlBody string) error

// AccountProvisioner ensures a customer account exists for an email address.
// Implementations must be idempotent on email.
type AccountProvisioner interface {
	EnsureAccount(ctx context.Context, email, name, orderID string) (*AccountResult, error)
}

// Service orchestrates webhook ingestion and order fulfillment.
type Service struct {
	repo     Repository
	accounts AccountProvisioner
	sendMail Mailer
	now      func() time.Time
}

// NewService creates a fulfillment service from injected collaborators.
func NewService(repo Repository, accounts AccountProvisioner, sendMail Mailer) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		sendMail: sendMail,
		now:      time.Now,
	}
}

// NewServiceFromDB creates a fulfillment service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		NewRepository(db),
		NewAccountService(repository.NewUserRepository(db), mail.SendMail),
		mail.SendMail,
	)
}

// WebhookOutcome reports how an inbound webhook was handled.
type WebhookOutcome struct {
	LogID   uint
	OrderID string
	Ignored bool
}

// ProcessWebhook ingests one provider webhook. The raw payload is persisted
// to the audit log before any processing so even a crash mid-way leaves a
// trace, and the same log row is amended exactly once with the final outcome.
func (s *Service) ProcessWebhook(ctx context.Context, provider string, raw []byte) (*WebhookOutcome, error) {
	event, parseErr := ParseWebhookPayload(raw)

	entry := &models.WebhookLog{
		Provider:      provider,
		TransactionID: event.TransactionID,
		Payload:       string(raw),
		Status:        models.WebhookStatusReceived,
	}
	if err := s.repo.CreateWebhookLog(entry); err != nil {
		return nil, fmt.Errorf("webhook log persist failed: %w", err)
	}
	outcome := &WebhookOutcome{LogID: entry.ID}

	if parseErr != nil {
		s.amendWebhookError(entry.ID, parseErr)
		return outcome, parseErr
	}
	outcome.OrderID = event.OrderID

	if !event.IsPaid() {
		// Non-paid events are accepted but ignored; they are not failures.
		s.amendWebhookProcessed(entry.ID, "")
		outcome.Ignored = true
		return outcome, nil
	}

	order, err := s.repo.GetOrder(event.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = fmt.Errorf("%w: %s", ErrOrderNotFound, event.OrderID)
		}
		s.amendWebhookError(entry.ID, err)
		return outcome, err
	}

	if order.HasDigital {
		_, err = s.FinalizeDigitalOrder(ctx, order.ID, event.TransactionID, provider)
	} else {
		err = s.FinalizePhysicalOrder(ctx, order.ID, event.TransactionID, provider)
	}
	if err != nil {
		s.amendWebhookError(entry.ID, err)
		return outcome, err
	}

	s.amendWebhookProcessed(entry.ID, order.ID)
	return outcome, nil
}

// DigitalFinalizeResult is returned once a digital order is fulfilled.
type DigitalFinalizeResult struct {
	OrderID string
}

// FinalizeDigitalOrder performs every effect required to deliver a digital
// purchase. The order lookup and the status transition are required; account
// provisioning, the ledger write, the delivery email and the seller
// notification are best-effort so the customer's paid order never appears to
// have failed because of a recoverable downstream fault.
func (s *Service) FinalizeDigitalOrder(ctx context.Context, orderID, providerTxID, provider string) (*DigitalFinalizeResult, error) {
	order, err := s.repo.GetOrderWithStore(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, err
	}

	now := s.now()
	steps := []step{
		{
			name:     "order status transition",
			required: true,
			run: func(ctx context.Context) error {
				return s.repo.MarkOrderDelivered(order.ID, providerTxID, provider, now)
			},
		},
		{
			name: "account provisioning",
			run: func(ctx context.Context) error {
				_, err := s.accounts.EnsureAccount(ctx, order.Customer.Email, order.Customer.Name, order.ID)
				return err
			},
		},
		{
			name: "ledger finalization",
			loud: true,
			run: func(ctx context.Context) error {
				return s.repo.FinalizeOrderPayment(order.ID, providerTxID, provider)
			},
		},
		{
			name: "digital delivery email",
			run: func(ctx context.Context) error {
				return s.sendDigitalDeliveryEmail(order)
			},
		},
		{
			name: "seller notification",
			run: func(ctx context.Context) error {
				return s.repo.CreateNotification(
					order.Store.UserID,
					"Vente digitale confirmée ! 💰",
					fmt.Sprintf("Paiement de %.2f %s reçu pour votre produit digital.", order.Total, order.Currency),
					"/orders",
				)
			},
		},
	}

	if err := runSteps(ctx, "FinalizeDigitalOrder", steps); err != nil {
		return nil, err
	}

	log.Printf("[FinalizeDigitalOrder] order %s delivered (tx %s via %s)", order.ID, providerTxID, provider)
	return &DigitalFinalizeResult{OrderID: order.ID}, nil
}

// FinalizePhysicalOrder records the payment against the ledger. Physical
// fulfillment itself is handled by the seller; the ledger procedure is the
// idempotency boundary for replays.
func (s *Service) FinalizePhysicalOrder(ctx context.Context, orderID, providerTxID, provider string) error {
	_ = ctx
	return s.repo.FinalizeOrderPayment(orderID, providerTxID, provider)
}

func (s *Service) sendDigitalDeliveryEmail(order *models.Order) error {
	to := strings.TrimSpace(order.Customer.Email)
	if to == "" {
		return errors.New("order has no customer email")
	}

	domain := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "https://payliv.shop"), "/")
	body := fmt.Sprintf(`
		<h1>Merci pour votre achat !</h1>
		<p>Bonjour %s,</p>
		<p>Votre commande #%s sur %s a été confirmée et vos produits digitaux sont disponibles.</p>
		<p>Accédez à vos achats : <a href="%s/my-purchases">%s/my-purchases</a></p>
		<p>L'équipe PayLiv</p>
	`, order.Customer.Name, order.ShortRef(), order.Store.Name, domain, domain)

	return s.sendMail(to, "Vos produits digitaux sont disponibles", body)
}

func (s *Service) amendWebhookProcessed(logID uint, orderID string) {
	if err := s.repo.MarkWebhookProcessed(logID, orderID); err != nil {
		log.Printf("[ProcessWebhook] failed to amend webhook log %d: %v", logID, err)
	}
}

func (s *Service) amendWebhookError(logID uint, cause error) {
	if err := s.repo.MarkWebhookError(logID, cause.Error()); err != nil {
		log.Printf("[ProcessWebhook] failed to amend webhook log %d: %v", logID, err)
	}
}
