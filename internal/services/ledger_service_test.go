package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/Arihant09x/AI-Suggestions-paywallet/internal/models"
)

const (
	lockBalanceQuery = `SELECT balance FROM accounts WHERE user_id = \$1 FOR UPDATE`
	applyDeltaQuery  = `UPDATE accounts SET balance = balance \+ \$1`
	insertRecord     = `INSERT INTO transactions`
)

func sampleTime(day int) time.Time {
	return time.Date(2025, 1, day, 12, 0, 0, 0, time.UTC)
}

func TestLedgerService_Transfer(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)
	ctx := context.Background()

	t.Run("successful transfer", func(t *testing.T) {
		mock.ExpectBegin()

		// Accounts locked in ascending id order
		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(5000))
		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(2000))

		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(-1000), sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(1000), sqlmock.AnyArg(), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectExec(insertRecord).
			WithArgs(sqlmock.AnyArg(), 1, 2, int64(1000), models.StatusTransfer, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		newBalance, err := service.Transfer(ctx, 1, 2, 1000)
		assert.NoError(t, err)
		assert.Equal(t, int64(4000), newBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("locks accounts in ascending order when sender id is higher", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(700))
		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(9).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(10000))

		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(-500), sqlmock.AnyArg(), 9).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(500), sqlmock.AnyArg(), 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectExec(insertRecord).
			WithArgs(sqlmock.AnyArg(), 9, 3, int64(500), models.StatusTransfer, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		newBalance, err := service.Transfer(ctx, 9, 3, 500)
		assert.NoError(t, err)
		assert.Equal(t, int64(9500), newBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance writes nothing", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(300))
		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(2000))

		mock.ExpectRollback()

		_, err := service.Transfer(ctx, 1, 2, 1000)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("recipient account not found", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(5000))
		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}))

		mock.ExpectRollback()

		_, err := service.Transfer(ctx, 1, 42, 1000)
		assert.ErrorIs(t, err, ErrRecipientNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sender account not found", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}))

		mock.ExpectRollback()

		_, err := service.Transfer(ctx, 1, 2, 1000)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero and negative amounts rejected before any query", func(t *testing.T) {
		_, err := service.Transfer(ctx, 1, 2, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = service.Transfer(ctx, 1, 2, -500)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("self transfer locks the row once and balance is unchanged", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(5000))

		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(-1000), sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(1000), sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectExec(insertRecord).
			WithArgs(sqlmock.AnyArg(), 1, 1, int64(1000), models.StatusTransfer, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		newBalance, err := service.Transfer(ctx, 1, 1, 1000)
		assert.NoError(t, err)
		assert.Equal(t, int64(5000), newBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure surfaces as error", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(5000))
		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(2000))

		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(-1000), sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(1000), sqlmock.AnyArg(), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(insertRecord).
			WithArgs(sqlmock.AnyArg(), 1, 2, int64(1000), models.StatusTransfer, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit().WillReturnError(assert.AnError)

		_, err := service.Transfer(ctx, 1, 2, 1000)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_AddMoney(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)
	ctx := context.Background()

	t.Run("successful top-up", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(5000))

		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(2500), sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectExec(insertRecord).
			WithArgs(sqlmock.AnyArg(), 1, 1, int64(2500), models.StatusAddMoney, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		newBalance, err := service.AddMoney(ctx, 1, 2500)
		assert.NoError(t, err)
		assert.Equal(t, int64(7500), newBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("account not found", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}))

		mock.ExpectRollback()

		_, err := service.AddMoney(ctx, 7, 2500)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := service.AddMoney(ctx, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_PayViaPhone(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)
	ctx := context.Background()

	t.Run("successful qr payment", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(`SELECT id FROM users WHERE phone_number = \$1`).
			WithArgs("9876543210").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(5000))
		mock.ExpectQuery(lockBalanceQuery).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(2000))

		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(-1500), sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(applyDeltaQuery).
			WithArgs(int64(1500), sqlmock.AnyArg(), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectExec(insertRecord).
			WithArgs(sqlmock.AnyArg(), 1, 2, int64(1500), models.StatusPaidViaQR, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		newBalance, toUserID, err := service.PayViaPhone(ctx, 1, "9876543210", 1500)
		assert.NoError(t, err)
		assert.Equal(t, int64(3500), newBalance)
		assert.Equal(t, 2, toUserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown phone number", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectQuery(`SELECT id FROM users WHERE phone_number = \$1`).
			WithArgs("0000000000").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		mock.ExpectRollback()

		_, _, err := service.PayViaPhone(ctx, 1, "0000000000", 1500)
		assert.ErrorIs(t, err, ErrRecipientNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_Balance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)
	ctx := context.Background()

	t.Run("returns balance", func(t *testing.T) {
		mock.ExpectQuery(`SELECT balance FROM accounts WHERE user_id = \$1`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(123456))

		balance, err := service.Balance(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(123456), balance)
	})

	t.Run("missing account", func(t *testing.T) {
		mock.ExpectQuery(`SELECT balance FROM accounts WHERE user_id = \$1`).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}))

		_, err := service.Balance(ctx, 99)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestLedgerService_History(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)
	ctx := context.Background()

	columns := []string{
		"reference_id", "amount", "status", "created_at",
		"fu_id", "fu_username", "fu_first_name", "fu_last_name",
		"tu_id", "tu_username", "tu_first_name", "tu_last_name",
	}

	t.Run("returns records newest first", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow("ref-2", 500, models.StatusTransfer, sampleTime(2),
				1, "alice@example.com", "Alice", "A",
				2, "bob@example.com", "Bob", "B").
			AddRow("ref-1", 200, models.StatusAddMoney, sampleTime(1),
				1, "alice@example.com", "Alice", "A",
				1, "alice@example.com", "Alice", "A")

		mock.ExpectQuery(`FROM transactions t`).
			WithArgs(1).
			WillReturnRows(rows)

		records, err := service.History(ctx, 1)
		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "ref-2", records[0].ReferenceID)
		assert.Equal(t, "bob@example.com", records[0].To.Username)
		assert.Equal(t, int64(500), records[0].Amount)
		assert.Equal(t, models.StatusAddMoney, records[1].Status)
	})

	t.Run("empty history returns empty slice", func(t *testing.T) {
		mock.ExpectQuery(`FROM transactions t`).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(columns))

		records, err := service.History(ctx, 5)
		assert.NoError(t, err)
		assert.NotNil(t, records)
		assert.Len(t, records, 0)
	})
}

func TestLedgerService_SeedAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs(1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	balance, err := service.SeedAccount(tx, 1)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, balance, int64(100))
	assert.LessOrEqual(t, balance, int64(1_000_000))
	assert.Zero(t, balance%100, "seed balance is always a whole rupee amount")

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
