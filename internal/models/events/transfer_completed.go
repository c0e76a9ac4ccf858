package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferCompleted struct {
	DebitTransactionID  string          `json:"debit_transaction_id"`
	CreditTransactionID string          `json:"credit_transaction_id"`
	SenderAccountID     string          `json:"sender_account_id"`
	RecipientAccountID  string          `json:"recipient_account_id"`
	Amount              decimal.Decimal `json:"amount"`
	OccurredAt          time.Time       `json:"occurred_at"`
}
