package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/payliv/fulfillment-service/app/models"
	"github.com/payliv/fulfillment-service/app/repository"
	"github.com/payliv/fulfillment-service/internal/pkg/env"
	"gorm.io/gorm"
)

// AccountResult reports the outcome of an account-provisioning call. The
// temporary password is only set when an account was actually created.
type AccountResult struct {
	Created           bool
	UserID            uint
	TemporaryPassword string
}

// AccountService provisions customer accounts from paid orders. Provisioning
// is idempotent on email: an existing account is returned untouched and no
// new credential is issued.
type AccountService struct {
	users    repository.UserRepository
	sendMail Mailer
}

func NewAccountService(users repository.UserRepository, sendMail Mailer) *AccountService {
	return &AccountService{users: users, sendMail: sendMail}
}

// EnsureAccount makes sure exactly one account exists for the customer email.
func (s *AccountService) EnsureAccount(ctx context.Context, email, name, orderID string) (*AccountResult, error) {
	_ = ctx
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || orderID == "" {
		return nil, errors.New("customer email, customer name and order id are required")
	}

	existing, err := s.users.GetByEmail(email)
	if err == nil {
		return &AccountResult{Created: false, UserID: existing.ID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	temporaryPassword, err := models.GenerateTemporaryPassword()
	if err != nil {
		return nil, fmt.Errorf("temporary password generation failed: %w", err)
	}

	user, err := models.CreateUser(name, email, temporaryPassword)
	if err != nil {
		return nil, err
	}
	user.CreatedFromOrder = orderID

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	// The account exists either way; a failed welcome mail must not undo it.
	if err := s.sendMail(email, "Votre compte PayLiv a été créé - Accédez à vos produits", welcomeEmailHTML(name, email, temporaryPassword)); err != nil {
		log.Printf("[EnsureAccount] WARN welcome email to %s failed: %v", email, err)
	}

	return &AccountResult{Created: true, UserID: user.ID, TemporaryPassword: temporaryPassword}, nil
}

func welcomeEmailHTML(name, email, temporaryPassword string) string {
	domain := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "https://payliv.shop"), "/")
	return fmt.Sprintf(`
		<h1>Bienvenue sur PayLiv !</h1>
		<p>Bonjour %s,</p>
		<p>Merci pour votre achat ! Un compte a été créé automatiquement pour vous permettre d'accéder à vos produits digitaux.</p>
		<p><strong>Vos informations de connexion :</strong></p>
		<ul>
			<li>Email : %s</li>
			<li>Mot de passe temporaire : %s</li>
		</ul>
		<p>Vous pouvez vous connecter et changer votre mot de passe à l'adresse : <a href="%s/login">%s/login</a></p>
		<p>Accédez à vos achats : <a href="%s/my-purchases">%s/my-purchases</a></p>
		<p>L'équipe PayLiv</p>
	`, name, email, temporaryPassword, domain, domain, domain, domain)
}
