// Package memory is the in-memory store implementation, used by tests and
// by the server when no durable backend is configured.
package memory

import (
	"context"
	"sync"

	"bankcore/internal/interfaces"
	"bankcore/internal/models"
	"bankcore/internal/money"
)

// Store keeps balances and journals in maps guarded by one mutex. Journals
// are held most-recent-first, the same order they are served in.
type Store struct {
	mu       sync.Mutex
	balances map[string]money.Amount
	journals map[string][]models.Transaction
	session  *models.Account
}

func NewStore() *Store {
	return &Store{
		balances: make(map[string]money.Amount),
		journals: make(map[string][]models.Transaction),
	}
}

func (s *Store) GetBalance(ctx context.Context, accountID string) (money.Amount, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[accountID]
	return balance, ok, nil
}

// CommitOperation updates the balance and prepends the transaction under one
// lock hold, so readers never observe one without the other.
func (s *Store) CommitOperation(ctx context.Context, accountID string, newBalance money.Amount, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[accountID] = newBalance
	s.journals[accountID] = append([]models.Transaction{tx}, s.journals[accountID]...)
	return nil
}

func (s *Store) Transactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	journal := s.journals[accountID]
	copied := make([]models.Transaction, len(journal))
	copy(copied, journal)
	return copied, nil
}

func (s *Store) SaveSession(ctx context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := account
	s.session = &cp
	return nil
}

func (s *Store) CurrentSession(ctx context.Context) (models.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return models.Account{}, false, nil
	}
	return *s.session, true, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

var (
	_ interfaces.LedgerStore  = (*Store)(nil)
	_ interfaces.SessionStore = (*Store)(nil)
)
