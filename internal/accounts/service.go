package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sonaljain01/Banking-Application/internal/auth"
	interfaces "github.com/sonaljain01/Banking-Application/internal/interfaces"
	"github.com/sonaljain01/Banking-Application/internal/models"
)

// numberRetries bounds how often registration re-rolls an account number
// that collided with an existing one.
const numberRetries = 5

// Service owns account lifecycle (registration, login, profile updates)
// and directory lookups. Balance mutations are not its business; those
// belong to the ledger engine.
type Service struct {
	store  interfaces.BankStore
	logger *zap.Logger
}

func NewService(store interfaces.BankStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Register creates an account with a fresh unique 12-digit account number
// and zero balance. A duplicate email fails with ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, contact, password string) (models.Account, error) {
	if _, err := s.store.AccountByEmail(ctx, email); err == nil {
		return models.Account{}, models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrAccountNotFound) {
		return models.Account{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	acct := models.Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Contact:      contact,
		PasswordHash: hash,
		Balance:      decimal.Zero,
		CreatedAt:    time.Now(),
	}

	for attempt := 0; attempt < numberRetries; attempt++ {
		number, err := GenerateAccountNumber()
		if err != nil {
			return models.Account{}, err
		}
		if _, err := s.store.AccountByNumber(ctx, number); err == nil {
			continue // collision, re-roll
		} else if !errors.Is(err, models.ErrAccountNotFound) {
			return models.Account{}, err
		}
		acct.AccountNumber = number
		break
	}
	if acct.AccountNumber == "" {
		return models.Account{}, errors.New("could not allocate a unique account number")
	}

	if err := s.store.CreateAccount(ctx, acct); err != nil {
		return models.Account{}, err
	}
	s.logger.Info("account registered",
		zap.String("account_id", acct.ID),
		zap.String("account_number", acct.AccountNumber))
	return acct, nil
}

// Login verifies the email/password pair and returns the account.
func (s *Service) Login(ctx context.Context, email, password string) (models.Account, error) {
	acct, err := s.store.AccountByEmail(ctx, email)
	if err != nil {
		return models.Account{}, err
	}
	if !auth.CheckPassword(acct.PasswordHash, password) {
		return models.Account{}, models.ErrInvalidCredentials
	}
	return acct, nil
}

// UpdateProfile re-verifies the current credentials before replacing the
// email and password.
func (s *Service) UpdateProfile(ctx context.Context, email, password, newEmail, newPassword string) error {
	acct, err := s.Login(ctx, email, password)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateCredentials(ctx, acct.ID, newEmail, hash); err != nil {
		return err
	}
	s.logger.Info("profile updated", zap.String("account_id", acct.ID))
	return nil
}

// ByID resolves an account identity to its record.
func (s *Service) ByID(ctx context.Context, id string) (models.Account, error) {
	return s.store.AccountByID(ctx, id)
}

// ByNumber resolves an account number to its record.
func (s *Service) ByNumber(ctx context.Context, number string) (models.Account, error) {
	return s.store.AccountByNumber(ctx, number)
}

// GenerateAccountNumber returns a 12-digit numeric string with a non-zero
// leading digit, drawn from crypto/rand.
func GenerateAccountNumber() (string, error) {
	// Uniform over [100000000000, 999999999999].
	n, err := rand.Int(rand.Reader, big.NewInt(900_000_000_000))
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100_000_000_000), nil
}
