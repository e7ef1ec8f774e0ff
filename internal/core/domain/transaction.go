package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalSourceID is the sentinel source account id for deposits: money
// entering from outside the modeled system. No account is debited.
const ExternalSourceID = "0"

// Transaction is an immutable record of one committed money movement.
// Records are append-only; they are never updated or deleted, which is what
// lets accounts be soft-deleted without losing history.
type Transaction struct {
	ID            string          `json:"transaction_id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsDeposit reports whether the transaction credits its destination from
// the external source rather than another account.
func (t *Transaction) IsDeposit() bool {
	return t.FromAccountID == ExternalSourceID
}
