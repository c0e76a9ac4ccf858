package memory

import (
	"context"
	"sync"

	interfaces "github.com/sonaljain01/Banking-Application/internal/interfaces"
	"github.com/sonaljain01/Banking-Application/internal/models"
)

// MemoryBankStore is an in-memory implementation of interfaces.BankStore.
// A single mutex serializes every state change, so ApplyTransfer and
// SaveTransaction are trivially atomic: no reader can observe a transfer
// with only one side applied.
type MemoryBankStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account // keyed by account id
	byNumber map[string]string          // account number -> id
	byEmail  map[string]string          // email -> id
	entries  []models.Transaction
}

// NewMemoryBankStore creates an empty store.
func NewMemoryBankStore() *MemoryBankStore {
	return &MemoryBankStore{
		accounts: make(map[string]*models.Account),
		byNumber: make(map[string]string),
		byEmail:  make(map[string]string),
	}
}

func (m *MemoryBankStore) CreateAccount(ctx context.Context, acct models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[acct.Email]; taken {
		return models.ErrEmailTaken
	}
	cp := acct
	m.accounts[acct.ID] = &cp
	m.byNumber[acct.AccountNumber] = acct.ID
	m.byEmail[acct.Email] = acct.ID
	return nil
}

func (m *MemoryBankStore) AccountByID(ctx context.Context, id string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(id)
}

func (m *MemoryBankStore) AccountByNumber(ctx context.Context, number string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byNumber[number]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	return m.lookup(id)
}

func (m *MemoryBankStore) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	return m.lookup(id)
}

func (m *MemoryBankStore) UpdateCredentials(ctx context.Context, accountID, newEmail, newPasswordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[accountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	if owner, taken := m.byEmail[newEmail]; taken && owner != accountID {
		return models.ErrEmailTaken
	}
	delete(m.byEmail, a.Email)
	a.Email = newEmail
	a.PasswordHash = newPasswordHash
	m.byEmail[newEmail] = accountID
	return nil
}

func (m *MemoryBankStore) SaveTransaction(ctx context.Context, entry models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !entry.Kind.Valid() {
		return models.ErrInvalidKind
	}
	a, ok := m.accounts[entry.AccountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	if entry.Kind == models.KindDebit {
		if a.Balance.LessThan(entry.Amount) {
			return models.ErrInsufficientFunds
		}
		a.Balance = a.Balance.Sub(entry.Amount)
	} else {
		a.Balance = a.Balance.Add(entry.Amount)
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryBankStore) ApplyTransfer(ctx context.Context, debit, credit models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !debit.Kind.Valid() || !credit.Kind.Valid() {
		return models.ErrInvalidKind
	}
	sender, ok := m.accounts[debit.AccountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	recipient, ok := m.accounts[credit.AccountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	// Re-check under the lock: the engine's pre-check may be stale.
	if sender.Balance.LessThan(debit.Amount) {
		return models.ErrInsufficientFunds
	}

	sender.Balance = sender.Balance.Sub(debit.Amount)
	recipient.Balance = recipient.Balance.Add(credit.Amount)
	m.entries = append(m.entries, credit, debit)
	return nil
}

func (m *MemoryBankStore) TransactionsByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Transaction
	for _, e := range m.entries {
		if e.AccountID == accountID {
			result = append(result, e)
		}
	}
	return result, nil
}

// lookup returns a value copy so callers cannot mutate internal state.
// Caller must hold m.mu.
func (m *MemoryBankStore) lookup(id string) (models.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	return *a, nil
}

// Compile-time check: ensure MemoryBankStore implements BankStore.
var _ interfaces.BankStore = (*MemoryBankStore)(nil)
