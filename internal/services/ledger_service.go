package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Arihant09x/AI-Suggestions-paywallet/internal/models"
	"github.com/google/uuid"
)

// Ledger failure reasons. Anything else coming out of a ledger operation is a
// storage fault and means the operation did not commit.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrAccountNotFound   = errors.New("account not found")
	ErrRecipientNotFound = errors.New("recipient account not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// LedgerService owns all writes to account balances and all transaction
// record inserts. Every balance mutation and its history record commit in a
// single database transaction; balances are always re-read under a row lock
// inside that transaction, never trusted from an earlier read.
type LedgerService struct {
	db *sql.DB
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db}
}

// Transfer moves amount paise from one user's account to another and writes
// one "Transfer" record. Returns the sender's new balance. Self-transfer is
// representable; blocking it is a UI policy, not a ledger invariant.
func (s *LedgerService) Transfer(ctx context.Context, fromUserID, toUserID int, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback()

	newBalance, err := s.transferTx(tx, fromUserID, toUserID, amount, models.StatusTransfer)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transfer: %w", err)
	}
	return newBalance, nil
}

// AddMoney credits the user's own account and writes one "Add Money" record
// with from = to. There is no funds check, only the positive-amount check.
func (s *LedgerService) AddMoney(ctx context.Context, userID int, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add money: %w", err)
	}
	defer tx.Rollback()

	balance, err := s.lockBalance(tx, userID)
	if err == sql.ErrNoRows {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock account %d: %w", userID, err)
	}

	if err := s.applyDelta(tx, userID, amount); err != nil {
		return 0, err
	}
	if err := s.createRecord(tx, userID, userID, amount, models.StatusAddMoney); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add money: %w", err)
	}
	return balance + amount, nil
}

// PayViaPhone resolves the recipient by phone number (the payload carried in
// a payment QR) and then behaves like Transfer with a "Paid via QR" record.
// The lookup happens inside the same database transaction as the movement.
// Returns the sender's new balance and the resolved recipient's user id.
func (s *LedgerService) PayViaPhone(ctx context.Context, fromUserID int, phone string, amount int64) (int64, int, error) {
	if amount <= 0 {
		return 0, 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin qr payment: %w", err)
	}
	defer tx.Rollback()

	var toUserID int
	err = tx.QueryRow(`SELECT id FROM users WHERE phone_number = $1`, phone).Scan(&toUserID)
	if err == sql.ErrNoRows {
		return 0, 0, ErrRecipientNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("resolve recipient: %w", err)
	}

	newBalance, err := s.transferTx(tx, fromUserID, toUserID, amount, models.StatusPaidViaQR)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit qr payment: %w", err)
	}
	return newBalance, toUserID, nil
}

// Balance returns the current balance in paise. Read-only.
func (s *LedgerService) Balance(ctx context.Context, userID int) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE user_id = $1`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	return balance, nil
}

// History returns every record where the user is sender or recipient, most
// recent first, with counterparty names joined in.
func (s *LedgerService) History(ctx context.Context, userID int) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.reference_id, t.amount, t.status, t.created_at,
		       fu.id, fu.username, fu.first_name, fu.last_name,
		       tu.id, tu.username, tu.first_name, tu.last_name
		FROM transactions t
		JOIN users fu ON fu.id = t.from_user_id
		JOIN users tu ON tu.id = t.to_user_id
		WHERE t.from_user_id = $1 OR t.to_user_id = $1
		ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer rows.Close()

	records := []models.TransactionRecord{}
	for rows.Next() {
		var rec models.TransactionRecord
		err := rows.Scan(
			&rec.ReferenceID, &rec.Amount, &rec.Status, &rec.Timestamp,
			&rec.From.UserID, &rec.From.Username, &rec.From.FirstName, &rec.From.LastName,
			&rec.To.UserID, &rec.To.Username, &rec.To.FirstName, &rec.To.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SeedAccount inserts the account row for a freshly created user, inside the
// signup transaction, with a starting balance between 100 and 1,000,000 paise.
func (s *LedgerService) SeedAccount(tx *sql.Tx, userID int) (int64, error) {
	balance := int64(1+rand.Intn(10000)) * 100
	_, err := tx.Exec(
		`INSERT INTO accounts (user_id, balance, updated_at) VALUES ($1, $2, $3)`,
		userID, balance, time.Now())
	if err != nil {
		return 0, fmt.Errorf("seed account for user %d: %w", userID, err)
	}
	return balance, nil
}

func (s *LedgerService) transferTx(tx *sql.Tx, fromUserID, toUserID int, amount int64, status string) (int64, error) {
	// Lock accounts in consistent order to prevent deadlocks
	firstLock, secondLock := fromUserID, toUserID
	if fromUserID > toUserID {
		firstLock, secondLock = toUserID, fromUserID
	}

	balances := make(map[int]int64, 2)
	for _, id := range []int{firstLock, secondLock} {
		if _, done := balances[id]; done {
			continue // self-transfer locks the row once
		}
		balance, err := s.lockBalance(tx, id)
		if err == sql.ErrNoRows {
			if id == fromUserID {
				return 0, ErrAccountNotFound
			}
			return 0, ErrRecipientNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("lock account %d: %w", id, err)
		}
		balances[id] = balance
	}

	if balances[fromUserID] < amount {
		return 0, ErrInsufficientFunds
	}

	if err := s.applyDelta(tx, fromUserID, -amount); err != nil {
		return 0, err
	}
	if err := s.applyDelta(tx, toUserID, amount); err != nil {
		return 0, err
	}
	if err := s.createRecord(tx, fromUserID, toUserID, amount, status); err != nil {
		return 0, err
	}

	newBalance := balances[fromUserID] - amount
	if fromUserID == toUserID {
		newBalance += amount
	}
	return newBalance, nil
}

func (s *LedgerService) lockBalance(tx *sql.Tx, userID int) (int64, error) {
	var balance int64
	err := tx.QueryRow(
		`SELECT balance FROM accounts WHERE user_id = $1 FOR UPDATE`,
		userID).Scan(&balance)
	return balance, err
}

func (s *LedgerService) applyDelta(tx *sql.Tx, userID int, delta int64) error {
	_, err := tx.Exec(
		`UPDATE accounts SET balance = balance + $1, updated_at = $2 WHERE user_id = $3`,
		delta, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("update balance of account %d: %w", userID, err)
	}
	return nil
}

func (s *LedgerService) createRecord(tx *sql.Tx, fromUserID, toUserID int, amount int64, status string) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (reference_id, from_user_id, to_user_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), fromUserID, toUserID, amount, status, time.Now())
	if err != nil {
		return fmt.Errorf("create transaction record: %w", err)
	}
	return nil
}
