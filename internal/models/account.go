package models

// Account identifies one customer of the demo bank. Username, Email and
// FullName are profile attributes; the ledger keys everything off ID and
// transfers resolve recipients by AccountNumber.
type Account struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"` // 10 digits, unique
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
}
