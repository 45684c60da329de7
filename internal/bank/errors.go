package bank

import "errors"

// Facade-level business-rule errors. Amount and funds violations come from
// the ledger itself; these cover transfer validation.
var (
	ErrRecipientNotFound = errors.New("recipient account not found")
	ErrSelfTransfer      = errors.New("cannot transfer to your own account")
)
