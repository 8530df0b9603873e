package models

import (
	"strings"
	"testing"
)

func TestGenerateTemporaryPassword(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 32; i++ {
		pw, err := GenerateTemporaryPassword()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pw) != tempPasswordLength {
			t.Fatalf("expected length %d, got %d (%q)", tempPasswordLength, len(pw), pw)
		}
		if !strings.ContainsAny(pw, lowerChars) {
			t.Fatalf("expected a lower case character in %q", pw)
		}
		if !strings.ContainsAny(pw, upperChars) {
			t.Fatalf("expected an upper case character in %q", pw)
		}
		if !strings.ContainsAny(pw, digitChars) {
			t.Fatalf("expected a digit in %q", pw)
		}
		if !strings.ContainsAny(pw, symbolChars) {
			t.Fatalf("expected a symbol in %q", pw)
		}
		if _, dup := seen[pw]; dup {
			t.Fatalf("generated a duplicate credential %q", pw)
		}
		seen[pw] = struct{}{}
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	u, err := CreateUser("Awa Diop", "awa@example.com", "Temp-1234abcd!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Password == "Temp-1234abcd!" {
		t.Fatalf("expected the password stored hashed")
	}
	if !CheckPasswordHash("Temp-1234abcd!", u.Password) {
		t.Fatalf("expected the hash to verify")
	}
	if u.Role != ROLE_USER || u.Status != STATUS_ACTIVE {
		t.Fatalf("unexpected defaults: role=%q status=%q", u.Role, u.Status)
	}
}

func TestCreateUserValidation(t *testing.T) {
	if _, err := CreateUser("Awa Diop", "not-an-email", "Temp-1234abcd!"); err == nil {
		t.Fatalf("expected validation error for invalid email")
	}
}

func TestOrderShortRef(t *testing.T) {
	o := Order{ID: "0f84a3ec-1b2c-4d5e-8f90-a1b2c3d4e5f6"}
	if got := o.ShortRef(); got != "0f84a3ec" {
		t.Fatalf("expected first 8 chars, got %q", got)
	}

	short := Order{ID: "o1"}
	if got := short.ShortRef(); got != "o1" {
		t.Fatalf("expected short ids unchanged, got %q", got)
	}
}
