package models

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewAccountID returns a fresh opaque account identifier.
func NewAccountID() string {
	return uuid.New().String()
}

// NewTransactionID returns a time-ordered transaction identifier, so ids
// assigned later always sort after ids assigned earlier.
func NewTransactionID() string {
	return ulid.Make().String()
}
