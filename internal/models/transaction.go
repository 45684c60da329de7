package models

import (
	"time"

	"bankcore/internal/money"
)

// Kind classifies a ledger-affecting event.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindTransfer Kind = "transfer"
)

// Transaction is the immutable record of one committed balance mutation.
// Amount is always the positive magnitude of the event; the kind carries the
// direction. ResultingBalance is the account balance right after the event
// committed, captured once and never recomputed.
type Transaction struct {
	ID               string       `json:"id"`
	Kind             Kind         `json:"kind"`
	Amount           money.Amount `json:"amount"`
	Description      string       `json:"description"`
	CreatedAt        time.Time    `json:"created_at"`
	FromAccount      string       `json:"from_account,omitempty"` // transfers only
	ToAccount        string       `json:"to_account,omitempty"`   // transfers only
	ResultingBalance money.Amount `json:"resulting_balance"`
}
