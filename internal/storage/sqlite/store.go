// Package sqlite is the durable local store: a single-file database holding
// JSON values in a key-value table, the moral equivalent of the browser
// storage the demo persists into. Unreadable values degrade to absent rather
// than failing the caller.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"bankcore/internal/interfaces"
	"bankcore/internal/models"
	"bankcore/internal/money"
)

// Key scheme. Balance and journal are independently addressable per account.
const (
	balanceKeyPrefix = "bank_app_balance/"
	journalKeyPrefix = "bank_app_transactions/"
	sessionKey       = "bank_app_user"
	loginFlagKey     = "bank_app_is_logged_in"
)

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open creates or opens the store file, making parent directories as needed.
func Open(path string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s := &Store{db: db, log: log}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) GetBalance(ctx context.Context, accountID string) (money.Amount, bool, error) {
	var balance money.Amount
	ok, err := s.get(ctx, balanceKeyPrefix+accountID, &balance)
	return balance, ok, err
}

// CommitOperation writes the balance and the extended journal in one SQL
// transaction, so a crash between the two cannot leave them disagreeing.
func (s *Store) CommitOperation(ctx context.Context, accountID string, newBalance money.Amount, tx models.Transaction) error {
	journal, err := s.Transactions(ctx, accountID)
	if err != nil {
		return err
	}
	journal = append([]models.Transaction{tx}, journal...)

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer dbTx.Rollback()

	if err := putTx(ctx, dbTx, balanceKeyPrefix+accountID, newBalance); err != nil {
		return err
	}
	if err := putTx(ctx, dbTx, journalKeyPrefix+accountID, journal); err != nil {
		return err
	}
	return dbTx.Commit()
}

func (s *Store) Transactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	var journal []models.Transaction
	if _, err := s.get(ctx, journalKeyPrefix+accountID, &journal); err != nil {
		return nil, err
	}
	return journal, nil
}

func (s *Store) SaveSession(ctx context.Context, account models.Account) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session save: %w", err)
	}
	defer dbTx.Rollback()
	if err := putTx(ctx, dbTx, sessionKey, account); err != nil {
		return err
	}
	if err := putTx(ctx, dbTx, loginFlagKey, true); err != nil {
		return err
	}
	return dbTx.Commit()
}

func (s *Store) CurrentSession(ctx context.Context) (models.Account, bool, error) {
	var loggedIn bool
	if _, err := s.get(ctx, loginFlagKey, &loggedIn); err != nil {
		return models.Account{}, false, err
	}
	if !loggedIn {
		return models.Account{}, false, nil
	}
	var account models.Account
	ok, err := s.get(ctx, sessionKey, &account)
	return account, ok, err
}

func (s *Store) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, sessionKey, loginFlagKey)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// get loads and decodes one key into out. A missing row reports ok=false; a
// row that no longer parses is treated the same way, with a warning, so a
// corrupt value reads as "never stored" instead of poisoning the account.
func (s *Store) get(ctx context.Context, key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Warn("discarding corrupt value", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func putTx(ctx context.Context, dbTx *sql.Tx, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, string(raw))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

var (
	_ interfaces.LedgerStore  = (*Store)(nil)
	_ interfaces.SessionStore = (*Store)(nil)
)
