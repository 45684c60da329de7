// Package postgres backs the ledger with a shared database, for running the
// demo against real infrastructure instead of a local file.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"bankcore/internal/interfaces"
	"bankcore/internal/models"
	"bankcore/internal/money"
)

type Store struct {
	db *sql.DB
}

// Open connects and ensures the schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s := &Store{db: db}
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
	CREATE TABLE IF NOT EXISTS balances (
		account_id TEXT PRIMARY KEY,
		balance    BIGINT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id                TEXT PRIMARY KEY,
		account_id        TEXT NOT NULL,
		kind              TEXT NOT NULL,
		amount            BIGINT NOT NULL,
		description       TEXT NOT NULL,
		from_account      TEXT,
		to_account        TEXT,
		resulting_balance BIGINT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS transactions_account_idx ON transactions (account_id, id DESC);
	CREATE TABLE IF NOT EXISTS sessions (
		marker         INT PRIMARY KEY CHECK (marker = 1),
		account_id     TEXT NOT NULL,
		account_number TEXT NOT NULL,
		username       TEXT NOT NULL,
		email          TEXT NOT NULL,
		full_name      TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) GetBalance(ctx context.Context, accountID string) (money.Amount, bool, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM balances WHERE account_id = $1`, accountID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read balance: %w", err)
	}
	return money.Amount(balance), true, nil
}

// CommitOperation upserts the balance and inserts the transaction in one
// database transaction.
func (s *Store) CommitOperation(ctx context.Context, accountID string, newBalance money.Amount, tx models.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO balances (account_id, balance) VALUES ($1, $2)
		 ON CONFLICT (account_id) DO UPDATE SET balance = EXCLUDED.balance`,
		accountID, int64(newBalance))
	if err != nil {
		return fmt.Errorf("write balance: %w", err)
	}

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO transactions
		 (id, account_id, kind, amount, description, from_account, to_account, resulting_balance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tx.ID, accountID, string(tx.Kind), int64(tx.Amount), tx.Description,
		nullable(tx.FromAccount), nullable(tx.ToAccount), int64(tx.ResultingBalance), tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return dbTx.Commit()
}

// Transactions orders by id descending; transaction ids are time-ordered, so
// this is most-recent-first.
func (s *Store) Transactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, amount, description, from_account, to_account, resulting_balance, created_at
		 FROM transactions WHERE account_id = $1 ORDER BY id DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			tx                models.Transaction
			amount, resulting int64
			fromAcct, toAcct  sql.NullString
			kind              string
			createdAt         time.Time
		)
		if err := rows.Scan(&tx.ID, &kind, &amount, &tx.Description, &fromAcct, &toAcct, &resulting, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = models.Kind(kind)
		tx.Amount = money.Amount(amount)
		tx.FromAccount = fromAcct.String
		tx.ToAccount = toAcct.String
		tx.ResultingBalance = money.Amount(resulting)
		tx.CreatedAt = createdAt
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) SaveSession(ctx context.Context, account models.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (marker, account_id, account_number, username, email, full_name)
		 VALUES (1, $1, $2, $3, $4, $5)
		 ON CONFLICT (marker) DO UPDATE SET
		   account_id = EXCLUDED.account_id, account_number = EXCLUDED.account_number,
		   username = EXCLUDED.username, email = EXCLUDED.email, full_name = EXCLUDED.full_name`,
		account.ID, account.AccountNumber, account.Username, account.Email, account.FullName)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) CurrentSession(ctx context.Context) (models.Account, bool, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT account_id, account_number, username, email, full_name FROM sessions WHERE marker = 1`).
		Scan(&a.ID, &a.AccountNumber, &a.Username, &a.Email, &a.FullName)
	if err == sql.ErrNoRows {
		return models.Account{}, false, nil
	}
	if err != nil {
		return models.Account{}, false, fmt.Errorf("read session: %w", err)
	}
	return a, true, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE marker = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var (
	_ interfaces.LedgerStore  = (*Store)(nil)
	_ interfaces.SessionStore = (*Store)(nil)
)
