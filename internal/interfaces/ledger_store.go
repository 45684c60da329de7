package interfaces

import (
	"context"

	"bankcore/internal/models"
	"bankcore/internal/money"
)

// LedgerStore persists per-account balances and transaction history. Each
// account's balance and journal are independently addressable; a missing
// balance means the account has never been written, not that it is zero.
type LedgerStore interface {
	// GetBalance returns the stored balance for the account. ok is false
	// when no balance has ever been committed for it.
	GetBalance(ctx context.Context, accountID string) (balance money.Amount, ok bool, err error)

	// CommitOperation writes the new balance and appends the transaction as
	// one unit. Implementations must not leave the balance updated without
	// the journal entry or vice versa.
	CommitOperation(ctx context.Context, accountID string, newBalance money.Amount, tx models.Transaction) error

	// Transactions returns the account's full history, most recent first.
	Transactions(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// SessionStore persists the current-actor marker so a session survives a
// restart. Clearing the session never touches ledger data.
type SessionStore interface {
	SaveSession(ctx context.Context, account models.Account) error
	// CurrentSession returns the persisted actor, ok=false when logged out
	// or when the stored marker is unreadable.
	CurrentSession(ctx context.Context) (account models.Account, ok bool, err error)
	ClearSession(ctx context.Context) error
}
