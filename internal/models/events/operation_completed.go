package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationCompleted is published after a ledger operation has committed.
// Amounts go out as decimals so downstream consumers are not coupled to the
// internal minor-unit representation.
type OperationCompleted struct {
	TransactionID    string          `json:"transaction_id"`
	AccountID        string          `json:"account_id"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	ToAccount        string          `json:"to_account,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
}
