package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	interfaces "github.com/sonaljain01/Banking-Application/internal/interfaces"
	"github.com/sonaljain01/Banking-Application/internal/models"
	"github.com/sonaljain01/Banking-Application/internal/storage"
)

// PostgresBankStore implements interfaces.BankStore on database/sql.
// Transfers run in a single transaction with both account rows locked
// FOR UPDATE in account-id order, so two transfers over overlapping
// accounts serialize without deadlocking and the balance check always
// sees the latest committed value.
type PostgresBankStore struct {
	db *sql.DB
}

func NewPostgresBankStore(db *sql.DB) *PostgresBankStore {
	return &PostgresBankStore{db: db}
}

const accountColumns = `id, account_number, name, email, contact, password_hash, balance, created_at`

func (p *PostgresBankStore) CreateAccount(ctx context.Context, acct models.Account) error {
	const query = `INSERT INTO accounts (id, account_number, name, email, contact, password_hash, balance, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := p.db.ExecContext(ctx, query,
		acct.ID, acct.AccountNumber, acct.Name, acct.Email, acct.Contact,
		acct.PasswordHash, acct.Balance, acct.CreatedAt)
	if isUniqueViolation(err) {
		return models.ErrEmailTaken
	}
	return err
}

func (p *PostgresBankStore) AccountByID(ctx context.Context, id string) (models.Account, error) {
	return p.scanAccount(p.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (p *PostgresBankStore) AccountByNumber(ctx context.Context, number string) (models.Account, error) {
	return p.scanAccount(p.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, number))
}

func (p *PostgresBankStore) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return p.scanAccount(p.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (p *PostgresBankStore) UpdateCredentials(ctx context.Context, accountID, newEmail, newPasswordHash string) error {
	const query = `UPDATE accounts SET email = $2, password_hash = $3 WHERE id = $1`

	res, err := p.db.ExecContext(ctx, query, accountID, newEmail, newPasswordHash)
	if isUniqueViolation(err) {
		return models.ErrEmailTaken
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (p *PostgresBankStore) SaveTransaction(ctx context.Context, entry models.Transaction) error {
	if !entry.Kind.Valid() {
		return models.ErrInvalidKind
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	balance, err := lockBalance(ctx, tx, entry.AccountID)
	if err != nil {
		return err
	}
	if entry.Kind == models.KindDebit && balance.LessThan(entry.Amount) {
		return models.ErrInsufficientFunds
	}

	delta := entry.Amount
	if entry.Kind == models.KindDebit {
		delta = delta.Neg()
	}
	if err := adjustBalance(ctx, tx, entry.AccountID, delta); err != nil {
		return err
	}
	if err := insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	return commit(tx)
}

func (p *PostgresBankStore) ApplyTransfer(ctx context.Context, debit, credit models.Transaction) error {
	if !debit.Kind.Valid() || !credit.Kind.Valid() {
		return models.ErrInvalidKind
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock both rows in account-id order regardless of direction.
	first, second := debit.AccountID, credit.AccountID
	if second < first {
		first, second = second, first
	}
	if _, err := lockBalance(ctx, tx, first); err != nil {
		return err
	}
	if _, err := lockBalance(ctx, tx, second); err != nil {
		return err
	}

	senderBalance, err := queryBalance(ctx, tx, debit.AccountID)
	if err != nil {
		return err
	}
	if senderBalance.LessThan(debit.Amount) {
		return models.ErrInsufficientFunds
	}

	if err := adjustBalance(ctx, tx, debit.AccountID, debit.Amount.Neg()); err != nil {
		return err
	}
	if err := adjustBalance(ctx, tx, credit.AccountID, credit.Amount); err != nil {
		return err
	}
	if err := insertEntry(ctx, tx, credit); err != nil {
		return err
	}
	if err := insertEntry(ctx, tx, debit); err != nil {
		return err
	}
	return commit(tx)
}

func (p *PostgresBankStore) TransactionsByAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	const query = `SELECT id, account_id, kind, amount, description, created_at
	FROM transactions WHERE account_id = $1`

	rows, err := p.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Transaction
	for rows.Next() {
		var e models.Transaction
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Kind, &e.Amount, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *PostgresBankStore) scanAccount(row *sql.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.AccountNumber, &a.Name, &a.Email, &a.Contact,
		&a.PasswordHash, &a.Balance, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, models.ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return a, nil
}

func lockBalance(ctx context.Context, tx *sql.Tx, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, models.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, mapConflict(err)
	}
	return balance, nil
}

func queryBalance(ctx context.Context, tx *sql.Tx, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, models.ErrAccountNotFound
	}
	return balance, err
}

func adjustBalance(ctx context.Context, tx *sql.Tx, accountID string, delta decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $2 WHERE id = $1`, accountID, delta)
	return mapConflict(err)
}

func insertEntry(ctx context.Context, tx *sql.Tx, entry models.Transaction) error {
	const query = `INSERT INTO transactions (id, account_id, kind, amount, description, created_at)
	VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := tx.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.Kind, entry.Amount, entry.Description, entry.CreatedAt)
	return mapConflict(err)
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return mapConflict(err)
	}
	return nil
}

// mapConflict translates serialization failures and deadlocks into the
// retryable storage.ErrConflict sentinel.
func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%w: %s", storage.ErrConflict, pqErr.Message)
		}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Compile-time check: ensure PostgresBankStore implements BankStore.
var _ interfaces.BankStore = (*PostgresBankStore)(nil)
