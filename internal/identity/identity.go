// Package identity tracks who the current actor is. It validates logins the
// way the demo does (any username, password length only), persists the
// session marker so it survives restarts, and broadcasts actor changes on a
// last-value signal.
package identity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"bankcore/internal/directory"
	"bankcore/internal/interfaces"
	"bankcore/internal/models"
	"bankcore/internal/signal"
)

// MinPasswordLen is the only credential rule; there is no real auth here.
const MinPasswordLen = 8

var ErrInvalidCredentials = errors.New("invalid credentials: password must be at least 8 characters")

// Profile carries the fields a registration supplies. AccountNumber is
// optional; one is generated when empty.
type Profile struct {
	Username      string
	Email         string
	FullName      string
	AccountNumber string
}

// Store is the identity/session component. Single writer (Authenticate,
// Register, Deregister), many readers via Current and the signal.
type Store struct {
	dir      *directory.Directory
	sessions interfaces.SessionStore
	current  *signal.Signal[*models.Account]
	log      *zap.Logger
}

func NewStore(dir *directory.Directory, sessions interfaces.SessionStore, log *zap.Logger) *Store {
	return &Store{
		dir:      dir,
		sessions: sessions,
		current:  signal.NewWith[*models.Account](nil),
		log:      log,
	}
}

// Restore loads a previously persisted session, if any. An unreadable marker
// degrades to logged-out rather than failing startup.
func (s *Store) Restore(ctx context.Context) {
	account, ok, err := s.sessions.CurrentSession(ctx)
	if err != nil {
		s.log.Warn("session restore failed", zap.Error(err))
		return
	}
	if ok {
		s.current.Set(&account)
	}
}

// Current returns the acting account, ok=false when logged out.
func (s *Store) Current() (models.Account, bool) {
	a, _ := s.current.Get()
	if a == nil {
		return models.Account{}, false
	}
	return *a, true
}

// Watch exposes the reactive current-actor stream. A nil value means logged
// out; late subscribers immediately receive the present state.
func (s *Store) Watch() (<-chan *models.Account, func()) {
	return s.current.Subscribe()
}

// Authenticate logs a user in. Credentials are accepted superficially: any
// username passes as long as the password is long enough, and an unknown
// username gets an account created on the spot, mirroring the demo's mock
// user database.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.Account, error) {
	if len(password) < MinPasswordLen {
		return models.Account{}, ErrInvalidCredentials
	}

	account, ok := s.dir.FindByUsername(username)
	if !ok {
		var err error
		account, err = s.createAccount(Profile{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			FullName: username,
		})
		if err != nil {
			return models.Account{}, err
		}
	}

	if err := s.begin(ctx, account); err != nil {
		return models.Account{}, err
	}
	s.log.Info("login", zap.String("username", username), zap.String("account", account.AccountNumber))
	return account, nil
}

// Register creates a new account from an explicit profile and starts its
// session. A supplied account number that is already taken is rejected;
// generated numbers are re-rolled until unique.
func (s *Store) Register(ctx context.Context, p Profile) (models.Account, error) {
	account, err := s.createAccount(p)
	if err != nil {
		return models.Account{}, err
	}
	if err := s.begin(ctx, account); err != nil {
		return models.Account{}, err
	}
	s.log.Info("registered", zap.String("username", account.Username), zap.String("account", account.AccountNumber))
	return account, nil
}

// Deregister clears the current actor. Ledger data is left intact.
func (s *Store) Deregister(ctx context.Context) error {
	if err := s.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.current.Set(nil)
	return nil
}

// UpdateProfile changes the mutable profile attributes of the current actor.
// Identity fields (id, account number) never change.
func (s *Store) UpdateProfile(ctx context.Context, fullName, email string) (models.Account, error) {
	account, ok := s.Current()
	if !ok {
		return models.Account{}, errors.New("no active session")
	}
	account.FullName = fullName
	account.Email = email
	if err := s.sessions.SaveSession(ctx, account); err != nil {
		return models.Account{}, fmt.Errorf("save session: %w", err)
	}
	s.current.Set(&account)
	return account, nil
}

func (s *Store) createAccount(p Profile) (models.Account, error) {
	generated := p.AccountNumber == ""
	for {
		number := p.AccountNumber
		if generated {
			number = s.dir.GenerateAccountNumber()
		}
		account := models.Account{
			ID:            models.NewAccountID(),
			AccountNumber: number,
			Username:      p.Username,
			Email:         p.Email,
			FullName:      p.FullName,
		}
		err := s.dir.Register(account)
		if err == nil {
			return account, nil
		}
		// A generated number can race another registration; roll again.
		if generated && errors.Is(err, directory.ErrDuplicateAccountNumber) {
			continue
		}
		return models.Account{}, err
	}
}

func (s *Store) begin(ctx context.Context, account models.Account) error {
	if err := s.sessions.SaveSession(ctx, account); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.current.Set(&account)
	return nil
}
