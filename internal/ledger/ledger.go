// Package ledger owns the authoritative balance and the append-only
// transaction journal for each account. All balance mutation funnels through
// Apply, which treats read-validate-write as a critical section per account.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bankcore/internal/interfaces"
	"bankcore/internal/models"
	"bankcore/internal/money"
)

// DefaultStartingBalance is what an account holds before its first committed
// operation. An absent stored balance always reads as this, never as zero.
const DefaultStartingBalance money.Amount = 100000 // 1000.00

var (
	ErrInvalidAmount     = errors.New("amount must be greater than 0")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

// Direction says which way an Apply moves the balance.
type Direction int

const (
	Credit Direction = iota
	Debit
)

// Ledger coordinates balance reads and writes over a pluggable store.
type Ledger struct {
	store interfaces.LedgerStore
	locks map[string]*sync.Mutex // one mutex per account id
	mu    sync.Mutex             // protects locks
}

func New(store interfaces.LedgerStore) *Ledger {
	return &Ledger{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) accountLock(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.locks[accountID]; !ok {
		l.locks[accountID] = &sync.Mutex{}
	}
	return l.locks[accountID]
}

// Balance returns the account's current balance, falling back to
// DefaultStartingBalance when nothing has been stored yet.
func (l *Ledger) Balance(ctx context.Context, accountID string) (money.Amount, error) {
	balance, ok, err := l.store.GetBalance(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	if !ok {
		return DefaultStartingBalance, nil
	}
	return balance, nil
}

// Apply mutates the account balance by amount in the given direction and
// journals tx with its resulting balance filled in. The whole
// read-validate-write sequence holds the account lock, so two concurrent
// debits can never both pass the funds check against a stale balance. A
// rejected operation leaves balance and journal untouched.
func (l *Ledger) Apply(ctx context.Context, accountID string, amount money.Amount, dir Direction, tx models.Transaction) (money.Amount, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}

	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	current, err := l.Balance(ctx, accountID)
	if err != nil {
		return 0, err
	}

	var next money.Amount
	switch dir {
	case Credit:
		next = current + amount
	case Debit:
		if amount > current {
			return 0, ErrInsufficientFunds
		}
		next = current - amount
	default:
		return 0, fmt.Errorf("unknown direction %d", dir)
	}

	// Balance write and journal append commit together or not at all.
	tx.ResultingBalance = next
	if err := l.store.CommitOperation(ctx, accountID, next, tx); err != nil {
		return 0, fmt.Errorf("commit operation: %w", err)
	}
	return next, nil
}

// Transactions lists the account's history, most recent first. Repeated
// calls with no intervening writes return the same sequence.
func (l *Ledger) Transactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	txs, err := l.store.Transactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
