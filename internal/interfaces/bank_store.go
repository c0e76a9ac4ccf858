package interfaces

import (
	"context"

	"github.com/sonaljain01/Banking-Application/internal/models"
)

// BankStore is the durable keyed storage for accounts and transactions.
// Implementations must provide the atomicity contract documented on
// ApplyTransfer and SaveTransaction; everything else is plain reads.
type BankStore interface {
	CreateAccount(ctx context.Context, acct models.Account) error
	AccountByID(ctx context.Context, id string) (models.Account, error)
	AccountByNumber(ctx context.Context, number string) (models.Account, error)
	AccountByEmail(ctx context.Context, email string) (models.Account, error)

	// UpdateCredentials replaces the account's email and password hash.
	UpdateCredentials(ctx context.Context, accountID, newEmail, newPasswordHash string) error

	// SaveTransaction appends a single ledger entry and applies its signed
	// amount to the owning account's balance in one atomic unit. A debit
	// that would drive the balance negative fails with ErrInsufficientFunds
	// and changes nothing.
	SaveTransaction(ctx context.Context, entry models.Transaction) error

	// ApplyTransfer applies a debit and a credit entry together: both
	// balance deltas and both inserts commit as one unit or not at all.
	// The sender's balance is re-verified against the debit amount inside
	// the unit; ErrInsufficientFunds leaves all state untouched. A
	// concurrent reader must never observe a partially applied transfer.
	ApplyTransfer(ctx context.Context, debit, credit models.Transaction) error

	TransactionsByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}
