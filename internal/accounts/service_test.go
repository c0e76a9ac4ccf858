package accounts

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/sonaljain01/Banking-Application/internal/models"
	"github.com/sonaljain01/Banking-Application/internal/storage/memory"
)

func newService() *Service {
	return NewService(memory.NewMemoryBankStore(), zap.NewNop())
}

func TestRegisterCreatesZeroBalanceAccount(t *testing.T) {
	s := newService()
	acct, err := s.Register(context.Background(), "Alice", "alice@example.com", "555-0100", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if len(acct.AccountNumber) != 12 {
		t.Errorf("account number %q is not 12 digits", acct.AccountNumber)
	}
	for _, c := range acct.AccountNumber {
		if c < '0' || c > '9' {
			t.Fatalf("account number %q contains non-digit", acct.AccountNumber)
		}
	}
	if acct.AccountNumber[0] == '0' {
		t.Errorf("account number %q has leading zero", acct.AccountNumber)
	}
	if !acct.Balance.IsZero() {
		t.Errorf("balance=%s want 0", acct.Balance)
	}
	if acct.PasswordHash == "hunter22" || acct.PasswordHash == "" {
		t.Errorf("password must be stored hashed")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	s := newService()
	if _, err := s.Register(context.Background(), "Alice", "alice@example.com", "555-0100", "pw1"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := s.Register(context.Background(), "Mallory", "alice@example.com", "555-0199", "pw2")
	if !errors.Is(err, models.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	s := newService()
	reg, err := s.Register(context.Background(), "Alice", "alice@example.com", "555-0100", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	acct, err := s.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if acct.ID != reg.ID {
		t.Errorf("login resolved wrong account")
	}

	if _, err := s.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("bad password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("unknown email: want ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newService()
	if _, err := s.Register(context.Background(), "Alice", "alice@example.com", "555-0100", "old-pass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Wrong current password is refused.
	err := s.UpdateProfile(context.Background(), "alice@example.com", "bad", "new@example.com", "new-pass")
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}

	if err := s.UpdateProfile(context.Background(), "alice@example.com", "old-pass", "new@example.com", "new-pass"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	// Old credentials no longer work; new ones do.
	if _, err := s.Login(context.Background(), "alice@example.com", "old-pass"); err == nil {
		t.Error("old email should no longer resolve")
	}
	if _, err := s.Login(context.Background(), "new@example.com", "new-pass"); err != nil {
		t.Errorf("login with new credentials: %v", err)
	}
}

// TestAccountNumberDistribution samples the generator: every number must
// be 12 digits, and collisions across 10k draws should not happen in
// practice (the space has 9e11 values).
func TestAccountNumberDistribution(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		n, err := GenerateAccountNumber()
		if err != nil {
			t.Fatalf("GenerateAccountNumber: %v", err)
		}
		if len(n) != 12 {
			t.Fatalf("generated %q, want 12 digits", n)
		}
		if n[0] == '0' {
			t.Fatalf("generated %q with leading zero", n)
		}
		if seen[n] {
			t.Fatalf("collision after %d draws: %q", i, n)
		}
		seen[n] = true
	}
}
