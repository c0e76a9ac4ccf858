package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags a ledger movement as credit or debit. Stores reject
// any other value, so history readers never see an unknown kind.
type TransactionKind string

const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

// Valid reports whether k is one of the two recognised kinds.
func (k TransactionKind) Valid() bool {
	return k == KindCredit || k == KindDebit
}

// Transaction is a single append-only ledger record for one account.
// A transfer produces exactly two of these: a debit on the sender and a
// credit on the recipient, same amount, same description, same timestamp.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Kind        TransactionKind `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
