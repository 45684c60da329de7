// Package bank is the operation facade: deposit, withdraw and transfer as
// single user-visible actions over the ledger, the journal and the account
// directory. Business-rule violations come back as failure Results; only
// storage faults surface as errors.
package bank

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"bankcore/internal/directory"
	"bankcore/internal/interfaces"
	"bankcore/internal/ledger"
	"bankcore/internal/models"
	"bankcore/internal/models/events"
	"bankcore/internal/money"
	"bankcore/internal/signal"
)

// EventTopic is where committed-operation events are published.
const EventTopic = "ledger.operation-completed"

// Result is the uniform outcome of a facade operation. Balance holds the
// post-operation balance and is only meaningful when OK is true.
type Result struct {
	OK      bool         `json:"ok"`
	Message string       `json:"message"`
	Balance money.Amount `json:"balance,omitempty"`
}

// BalanceUpdate is broadcast on the balance signal after every commit.
type BalanceUpdate struct {
	AccountID string
	Balance   money.Amount
}

type Bank struct {
	ledger   *ledger.Ledger
	dir      *directory.Directory
	events   interfaces.EventPublisher
	balances *signal.Signal[BalanceUpdate]
	log      *zap.Logger
}

func New(l *ledger.Ledger, dir *directory.Directory, publisher interfaces.EventPublisher, log *zap.Logger) *Bank {
	return &Bank{
		ledger:   l,
		dir:      dir,
		events:   publisher,
		balances: signal.New[BalanceUpdate](),
		log:      log,
	}
}

// WatchBalances exposes the reactive balance stream. Late subscribers
// immediately see the most recent update.
func (b *Bank) WatchBalances() (<-chan BalanceUpdate, func()) {
	return b.balances.Subscribe()
}

// Balance reads the actor's current balance.
func (b *Bank) Balance(ctx context.Context, actor models.Account) (money.Amount, error) {
	return b.ledger.Balance(ctx, actor.ID)
}

// Transactions lists the actor's history, most recent first.
func (b *Bank) Transactions(ctx context.Context, actor models.Account) ([]models.Transaction, error) {
	return b.ledger.Transactions(ctx, actor.ID)
}

// Deposit credits the actor's account and journals the event.
func (b *Bank) Deposit(ctx context.Context, actor models.Account, amount money.Amount, description string) (Result, error) {
	if description == "" {
		description = "Deposit"
	}
	tx := newTransaction(models.KindDeposit, amount, description)
	newBalance, err := b.ledger.Apply(ctx, actor.ID, amount, ledger.Credit, tx)
	if err != nil {
		return b.reject(err)
	}
	b.committed(actor, tx, newBalance)
	return Result{OK: true, Message: "Deposit successful", Balance: newBalance}, nil
}

// Withdraw debits the actor's account. The funds check happens inside the
// ledger's critical section, so a stale pre-check can never overdraw.
func (b *Bank) Withdraw(ctx context.Context, actor models.Account, amount money.Amount, description string) (Result, error) {
	if description == "" {
		description = "Withdrawal"
	}
	tx := newTransaction(models.KindWithdraw, amount, description)
	newBalance, err := b.ledger.Apply(ctx, actor.ID, amount, ledger.Debit, tx)
	if err != nil {
		return b.reject(err)
	}
	b.committed(actor, tx, newBalance)
	return Result{OK: true, Message: "Withdrawal successful", Balance: newBalance}, nil
}

// Transfer debits the actor and records the recipient as counterparty. The
// recipient's own ledger is not credited; the transfer is a one-sided debit
// with the destination kept for history, matching the system this models.
func (b *Bank) Transfer(ctx context.Context, actor models.Account, amount money.Amount, toAccountNumber, description string) (Result, error) {
	if !amount.IsPositive() {
		return b.reject(ledger.ErrInvalidAmount)
	}
	if toAccountNumber == actor.AccountNumber {
		return b.reject(ErrSelfTransfer)
	}
	if _, ok := b.dir.FindByAccountNumber(toAccountNumber); !ok {
		return b.reject(ErrRecipientNotFound)
	}

	if description == "" {
		description = "Transfer"
	}
	tx := newTransaction(models.KindTransfer, amount, description)
	tx.FromAccount = actor.AccountNumber
	tx.ToAccount = toAccountNumber

	newBalance, err := b.ledger.Apply(ctx, actor.ID, amount, ledger.Debit, tx)
	if err != nil {
		return b.reject(err)
	}
	b.committed(actor, tx, newBalance)
	return Result{OK: true, Message: "Transfer successful", Balance: newBalance}, nil
}

func newTransaction(kind models.Kind, amount money.Amount, description string) models.Transaction {
	return models.Transaction{
		ID:          models.NewTransactionID(),
		Kind:        kind,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// reject turns an expected business-rule violation into a failure Result.
// Anything else is a fault and propagates.
func (b *Bank) reject(err error) (Result, error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return Result{Message: "Amount must be greater than 0"}, nil
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return Result{Message: "Insufficient balance"}, nil
	case errors.Is(err, ErrRecipientNotFound):
		return Result{Message: "Recipient account not found"}, nil
	case errors.Is(err, ErrSelfTransfer):
		return Result{Message: "Cannot transfer to your own account"}, nil
	default:
		return Result{}, err
	}
}

// committed fans a committed operation out to the balance signal and the
// event publisher. The operation is already durable; a publish failure is
// logged and never rolls it back.
func (b *Bank) committed(actor models.Account, tx models.Transaction, balance money.Amount) {
	b.balances.Set(BalanceUpdate{AccountID: actor.ID, Balance: balance})

	event := events.OperationCompleted{
		TransactionID:    tx.ID,
		AccountID:        actor.ID,
		Kind:             string(tx.Kind),
		Amount:           tx.Amount.Decimal(),
		ResultingBalance: balance.Decimal(),
		ToAccount:        tx.ToAccount,
		OccurredAt:       tx.CreatedAt,
	}
	if err := b.events.Publish(EventTopic, event); err != nil {
		b.log.Warn("event publish failed", zap.String("transaction", tx.ID), zap.Error(err))
	}

	b.log.Info("operation committed",
		zap.String("kind", string(tx.Kind)),
		zap.String("account", actor.AccountNumber),
		zap.String("amount", tx.Amount.String()),
		zap.String("balance", balance.String()),
	)
}
