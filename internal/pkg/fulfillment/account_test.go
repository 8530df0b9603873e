package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/payliv/fulfillment-service/app/models"
	"gorm.io/gorm"
)

// fakeUserRepo implements repository.UserRepository in memory.
type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  uint

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	user.ID = r.nextID
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func TestEnsureAccount_CreatesAccountWithHashedCredential(t *testing.T) {
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewAccountService(users, mailer.send)

	result, err := svc.EnsureAccount(context.Background(), "awa@example.com", "Awa Diop", "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created || result.UserID == 0 {
		t.Fatalf("expected a created account, got %+v", result)
	}
	if result.TemporaryPassword == "" {
		t.Fatalf("expected a temporary credential for a new account")
	}

	user := users.byEmail["awa@example.com"]
	if user == nil {
		t.Fatalf("expected the account persisted")
	}
	if user.Password == result.TemporaryPassword {
		t.Fatalf("expected the stored credential to be hashed")
	}
	if !models.CheckPasswordHash(result.TemporaryPassword, user.Password) {
		t.Fatalf("expected the hash to match the issued credential")
	}
	if user.CreatedFromOrder != "o1" {
		t.Fatalf("expected originating order recorded, got %q", user.CreatedFromOrder)
	}
	if user.Status != models.STATUS_ACTIVE {
		t.Fatalf("expected an active account, got %q", user.Status)
	}

	if len(mailer.sent) != 1 || mailer.sent[0].to != "awa@example.com" {
		t.Fatalf("expected one welcome email, got %v", mailer.sent)
	}
}

func TestEnsureAccount_IdempotentOnEmail(t *testing.T) {
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewAccountService(users, mailer.send)

	first, err := svc.EnsureAccount(context.Background(), "awa@example.com", "Awa Diop", "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.EnsureAccount(context.Background(), "awa@example.com", "Awa Diop", "o2")
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if second.Created {
		t.Fatalf("expected the second call to short-circuit")
	}
	if second.UserID != first.UserID {
		t.Fatalf("expected the existing account id, got %d and %d", first.UserID, second.UserID)
	}
	if second.TemporaryPassword != "" {
		t.Fatalf("no new credential may be issued for an existing account")
	}
	if len(users.byEmail) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(users.byEmail))
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected only the first call to send a welcome email, got %d", len(mailer.sent))
	}
}

func TestEnsureAccount_WelcomeMailFailureIsSwallowed(t *testing.T) {
	users := newFakeUserRepo()
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := NewAccountService(users, mailer.send)

	result, err := svc.EnsureAccount(context.Background(), "awa@example.com", "Awa Diop", "o1")
	if err != nil {
		t.Fatalf("a failed welcome mail must not fail provisioning: %v", err)
	}
	if !result.Created {
		t.Fatalf("expected the account still created")
	}
}

func TestEnsureAccount_MissingFields(t *testing.T) {
	svc := NewAccountService(newFakeUserRepo(), (&fakeMailer{}).send)

	tests := []struct {
		email, name, orderID string
	}{
		{"", "Awa", "o1"},
		{"awa@example.com", "", "o1"},
		{"awa@example.com", "Awa", ""},
	}
	for _, tt := range tests {
		if _, err := svc.EnsureAccount(context.Background(), tt.email, tt.name, tt.orderID); err == nil {
			t.Fatalf("expected error for email=%q name=%q order=%q", tt.email, tt.name, tt.orderID)
		}
	}
}
