package history

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	interfaces "github.com/sonaljain01/Banking-Application/internal/interfaces"
	"github.com/sonaljain01/Banking-Application/internal/models"
)

// monthLabel is the bucket key format for the analytics maps ("Jan 2024").
const monthLabel = "Jan 2006"

// Summary is the dashboard view of one account: the cached balance plus
// the full transaction list and its monthly aggregates.
type Summary struct {
	Balance         decimal.Decimal            `json:"balance"`
	AccountNumber   string                     `json:"accountNumber"`
	Transactions    []models.Transaction       `json:"transactions"`
	SpendingByMonth map[string]decimal.Decimal `json:"spendingByMonth"`
	IncomeByMonth   map[string]decimal.Decimal `json:"incomeByMonth"`
}

// Reader aggregates an account's transactions into the dashboard summary.
// It is a derived read outside the atomic core; it may serve data that is
// an in-flight transfer behind the ledger.
type Reader struct {
	store interfaces.BankStore
}

func NewReader(store interfaces.BankStore) *Reader {
	return &Reader{store: store}
}

// Summarize builds the summary for the given account. Transactions are
// sorted newest first; spending buckets sum debits per calendar month and
// income buckets sum credits.
func (r *Reader) Summarize(ctx context.Context, accountID string) (Summary, error) {
	acct, err := r.store.AccountByID(ctx, accountID)
	if err != nil {
		return Summary{}, err
	}
	txns, err := r.store.TransactionsByAccount(ctx, accountID)
	if err != nil {
		return Summary{}, err
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})

	spending := make(map[string]decimal.Decimal)
	income := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		label := txn.CreatedAt.Format(monthLabel)
		switch txn.Kind {
		case models.KindDebit:
			spending[label] = spending[label].Add(txn.Amount)
		case models.KindCredit:
			income[label] = income[label].Add(txn.Amount)
		}
	}

	if txns == nil {
		txns = []models.Transaction{}
	}
	return Summary{
		Balance:         acct.Balance,
		AccountNumber:   acct.AccountNumber,
		Transactions:    txns,
		SpendingByMonth: spending,
		IncomeByMonth:   income,
	}, nil
}
