package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sonaljain01/Banking-Application/internal/models"
	"github.com/sonaljain01/Banking-Application/internal/storage/memory"
)

func seedAccount(t *testing.T, store *memory.MemoryBankStore, balance int64) models.Account {
	t.Helper()
	acct := models.Account{
		ID:            uuid.New().String(),
		AccountNumber: "123456789012",
		Name:          "Dana",
		Email:         "dana@example.com",
		PasswordHash:  "x",
		Balance:       decimal.NewFromInt(balance),
		CreatedAt:     time.Now(),
	}
	if err := store.CreateAccount(context.Background(), acct); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return acct
}

func post(t *testing.T, store *memory.MemoryBankStore, accountID string, kind models.TransactionKind, amount int64, at time.Time) {
	t.Helper()
	err := store.SaveTransaction(context.Background(), models.Transaction{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    decimal.NewFromInt(amount),
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("SaveTransaction: %v", err)
	}
}

func TestSummarizeMonthlyBuckets(t *testing.T) {
	store := memory.NewMemoryBankStore()
	acct := seedAccount(t, store, 0)

	jan := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 3, 9, 0, 0, 0, time.UTC)
	post(t, store, acct.ID, models.KindCredit, 100, jan)
	post(t, store, acct.ID, models.KindDebit, 40, jan.Add(24*time.Hour))
	post(t, store, acct.ID, models.KindCredit, 30, feb)

	summary, err := NewReader(store).Summarize(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if !summary.Balance.Equal(decimal.NewFromInt(90)) {
		t.Errorf("balance=%s want 90", summary.Balance)
	}
	if summary.AccountNumber != acct.AccountNumber {
		t.Errorf("accountNumber=%q want %q", summary.AccountNumber, acct.AccountNumber)
	}

	if len(summary.SpendingByMonth) != 1 || !summary.SpendingByMonth["Jan 2024"].Equal(decimal.NewFromInt(40)) {
		t.Errorf("spendingByMonth=%v want {Jan 2024: 40}", summary.SpendingByMonth)
	}
	if !summary.IncomeByMonth["Jan 2024"].Equal(decimal.NewFromInt(100)) ||
		!summary.IncomeByMonth["Feb 2024"].Equal(decimal.NewFromInt(30)) ||
		len(summary.IncomeByMonth) != 2 {
		t.Errorf("incomeByMonth=%v want {Jan 2024: 100, Feb 2024: 30}", summary.IncomeByMonth)
	}
}

func TestSummarizeSortsNewestFirst(t *testing.T) {
	store := memory.NewMemoryBankStore()
	acct := seedAccount(t, store, 0)

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	post(t, store, acct.ID, models.KindCredit, 1, base)
	post(t, store, acct.ID, models.KindCredit, 2, base.Add(time.Hour))
	post(t, store, acct.ID, models.KindCredit, 3, base.Add(2*time.Hour))

	summary, err := NewReader(store).Summarize(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(summary.Transactions) != 3 {
		t.Fatalf("transactions=%d want 3", len(summary.Transactions))
	}
	for i := 0; i < len(summary.Transactions)-1; i++ {
		if summary.Transactions[i].CreatedAt.Before(summary.Transactions[i+1].CreatedAt) {
			t.Fatalf("transactions out of order at %d: %+v", i, summary.Transactions)
		}
	}
}

func TestSummarizeEmptyAccount(t *testing.T) {
	store := memory.NewMemoryBankStore()
	acct := seedAccount(t, store, 0)

	summary, err := NewReader(store).Summarize(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Transactions == nil || len(summary.Transactions) != 0 {
		t.Errorf("transactions should be an empty slice, got %#v", summary.Transactions)
	}
	if len(summary.SpendingByMonth) != 0 || len(summary.IncomeByMonth) != 0 {
		t.Errorf("buckets should be empty: %v %v", summary.SpendingByMonth, summary.IncomeByMonth)
	}
}

func TestSummarizeUnknownAccount(t *testing.T) {
	store := memory.NewMemoryBankStore()
	if _, err := NewReader(store).Summarize(context.Background(), "missing"); err == nil {
		t.Fatal("want error for unknown account")
	}
}
