// Package directory keeps the in-memory registry of known accounts. Transfer
// validation and login both resolve accounts here; the directory never
// touches balances or history.
package directory

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"bankcore/internal/models"
)

var ErrDuplicateAccountNumber = errors.New("account number already registered")

// Directory is safe for concurrent use. Lookups scan the registered set in
// insertion order, so the first registered match always wins.
type Directory struct {
	mu       sync.RWMutex
	accounts []models.Account
	numbers  map[string]struct{}
}

// New builds a directory pre-populated with seed accounts. A seed carrying a
// number that is already taken is rejected, the same as a registration.
func New(seed []models.Account) (*Directory, error) {
	d := &Directory{numbers: make(map[string]struct{})}
	for _, a := range seed {
		if err := d.Register(a); err != nil {
			return nil, fmt.Errorf("seed account %q: %w", a.Username, err)
		}
	}
	return d, nil
}

// Register adds an account. The account number must be unique; callers that
// want a fresh number should use GenerateAccountNumber first.
func (d *Directory) Register(a models.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.numbers[a.AccountNumber]; taken {
		return ErrDuplicateAccountNumber
	}
	d.accounts = append(d.accounts, a)
	d.numbers[a.AccountNumber] = struct{}{}
	return nil
}

// FindByAccountNumber resolves a 10-digit account number to its account.
func (d *Directory) FindByAccountNumber(number string) (models.Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, a := range d.accounts {
		if a.AccountNumber == number {
			return a, true
		}
	}
	return models.Account{}, false
}

// FindByUsername resolves a login name to its account.
func (d *Directory) FindByUsername(username string) (models.Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, a := range d.accounts {
		if a.Username == username {
			return a, true
		}
	}
	return models.Account{}, false
}

// GenerateAccountNumber returns a random 10-digit number not currently in
// the directory. Collisions are re-rolled; the space is ~9e9 against a small
// bounded account set, so this terminates immediately in practice.
func (d *Directory) GenerateAccountNumber() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for {
		n := fmt.Sprintf("%d", rand.Int63n(9_000_000_000)+1_000_000_000)
		if _, taken := d.numbers[n]; !taken {
			return n
		}
	}
}
