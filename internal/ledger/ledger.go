package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	interfaces "github.com/sonaljain01/Banking-Application/internal/interfaces"
	"github.com/sonaljain01/Banking-Application/internal/models"
	"github.com/sonaljain01/Banking-Application/internal/models/events"
	"github.com/sonaljain01/Banking-Application/internal/storage"
)

// maxConflictRetries bounds how many times a transfer is retried when the
// store reports a write conflict before the failure becomes terminal.
const maxConflictRetries = 3

// Ledger is the transfer engine. It funnels every balance mutation,
// transfers and generic credits/debits alike, through per-account locks
// and the store's atomic primitives, so concurrent requests touching the
// same accounts observe each other's effects in some total order.
type Ledger struct {
	store  interfaces.BankStore
	events interfaces.EventPublisher // may be nil
	topic  string
	logger *zap.Logger

	muMap map[string]*sync.Mutex // one mutex per account id
	mapMu sync.Mutex             // protects muMap itself
}

// NewLedger creates a transfer engine over the given store. publisher may
// be nil, in which case no events are emitted.
func NewLedger(store interfaces.BankStore, publisher interfaces.EventPublisher, topic string, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		events: publisher,
		topic:  topic,
		logger: logger,
		muMap:  make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) accountLock(accountID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[accountID]; !exists {
		l.muMap[accountID] = &sync.Mutex{}
	}
	return l.muMap[accountID]
}

// Transfer moves amount from the authenticated sender to the account
// identified by recipientNumber. On success exactly two balance mutations
// and two transaction rows are applied as one atomic unit; on any failure
// nothing is changed.
func (l *Ledger) Transfer(ctx context.Context, senderID, recipientNumber string, amount decimal.Decimal, description string) error {
	// Amount is validated before any lookup.
	if amount.Cmp(decimal.Zero) <= 0 {
		return models.ErrInvalidAmount
	}

	sender, err := l.store.AccountByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			l.logger.Warn("transfer sender not found", zap.String("sender_id", senderID))
		}
		return err
	}
	recipient, err := l.store.AccountByNumber(ctx, recipientNumber)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			l.logger.Warn("transfer recipient not found", zap.String("recipient_number", recipientNumber))
		}
		return err
	}
	if sender.ID == recipient.ID {
		return models.ErrSameAccount
	}

	senderMutex := l.accountLock(sender.ID)
	recipientMutex := l.accountLock(recipient.ID)

	// Lock in order to avoid deadlocks.
	if sender.ID < recipient.ID {
		senderMutex.Lock()
		recipientMutex.Lock()
	} else {
		recipientMutex.Lock()
		senderMutex.Lock()
	}
	defer senderMutex.Unlock()
	defer recipientMutex.Unlock()

	// Re-read the sender under the lock; the earlier read may be stale.
	sender, err = l.store.AccountByID(ctx, sender.ID)
	if err != nil {
		return err
	}
	if sender.Balance.LessThan(amount) {
		l.logger.Warn("transfer rejected: insufficient funds",
			zap.String("sender_id", sender.ID),
			zap.String("amount", amount.String()),
			zap.String("balance", sender.Balance.String()))
		return models.ErrInsufficientFunds
	}

	now := time.Now()
	debit := models.Transaction{
		ID:          uuid.New().String(),
		AccountID:   sender.ID,
		Kind:        models.KindDebit,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
	}
	credit := models.Transaction{
		ID:          uuid.New().String(),
		AccountID:   recipient.ID,
		Kind:        models.KindCredit,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
	}

	if err := l.applyWithRetry(ctx, debit, credit); err != nil {
		return err
	}

	l.logger.Info("transfer applied",
		zap.String("sender_id", sender.ID),
		zap.String("recipient_id", recipient.ID),
		zap.String("amount", amount.String()))
	l.publish(debit, credit)
	return nil
}

// Post appends a single credit or debit outside of a transfer (the
// generic transaction-create entry point). It takes the same per-account
// lock as Transfer so it cannot race the engine on the same account.
func (l *Ledger) Post(ctx context.Context, accountID string, kind models.TransactionKind, amount decimal.Decimal, description string) (models.Transaction, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return models.Transaction{}, models.ErrInvalidAmount
	}
	if !kind.Valid() {
		return models.Transaction{}, models.ErrInvalidKind
	}

	mu := l.accountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	entry := models.Transaction{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := l.store.SaveTransaction(ctx, entry); err != nil {
		return models.Transaction{}, err
	}
	return entry, nil
}

func (l *Ledger) applyWithRetry(ctx context.Context, debit, credit models.Transaction) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = l.store.ApplyTransfer(ctx, debit, credit)
		if !errors.Is(err, storage.ErrConflict) {
			return err
		}
		l.logger.Warn("transfer write conflict, retrying",
			zap.Int("attempt", attempt),
			zap.String("debit_id", debit.ID))
	}
	return err
}

func (l *Ledger) publish(debit, credit models.Transaction) {
	if l.events == nil {
		return
	}
	event := events.TransferCompleted{
		DebitTransactionID:  debit.ID,
		CreditTransactionID: credit.ID,
		SenderAccountID:     debit.AccountID,
		RecipientAccountID:  credit.AccountID,
		Amount:              debit.Amount,
		OccurredAt:          debit.CreatedAt,
	}
	if err := l.events.Publish(l.topic, event); err != nil {
		l.logger.Error("failed to publish transfer event", zap.Error(err))
	}
}
