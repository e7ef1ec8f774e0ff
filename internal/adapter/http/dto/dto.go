package dto

import (
	"time"

	"galactic-bank-api/internal/core/domain"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// IssueKeyRequest is the request body for API key issuance.
type IssueKeyRequest struct {
	OwnerName string `json:"owner_name" binding:"required,min=1,max=100"`
}

// IssueKeyResponse returns the raw key. This is the only time the raw
// value is ever sent; only its hash is stored.
type IssueKeyResponse struct {
	KeyID     string `json:"key_id"`
	OwnerName string `json:"owner_name"`
	APIKey    string `json:"api_key"`
	CreatedAt string `json:"created_at"`
}

// CreateAccountRequest is the request body for account creation.
// Currency and account type are validated as enum members at bind time.
type CreateAccountRequest struct {
	Owner          string          `json:"owner" binding:"required,min=1,max=100"`
	Currency       string          `json:"currency" binding:"required,currency"`
	AccountType    string          `json:"account_type" binding:"required,account_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// TransferRequest is the request body for transaction processing.
// Amount and currency are deliberately not constrained here: the
// processor validates them in its fixed order so error precedence
// matches the account lookups.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id" binding:"required"`
	ToAccountID   string          `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// AccountResponse is the response body for account reads.
type AccountResponse struct {
	AccountID   string `json:"account_id"`
	Owner       string `json:"owner"`
	Balance     string `json:"balance"`
	Currency    string `json:"currency"`
	AccountType string `json:"account_type"`
	CreatedAt   string `json:"created_at"`
}

// TransactionCreatedResponse acknowledges a committed transaction.
type TransactionCreatedResponse struct {
	TransactionID string `json:"transaction_id"`
}

// TransactionResponse is the response body for transaction reads.
type TransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	CreatedAt     string `json:"created_at"`
}

// ToAccountResponse converts domain.Account to its DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.ID,
		Owner:       a.Owner,
		Balance:     a.Balance.StringFixed(2),
		Currency:    string(a.Currency),
		AccountType: string(a.AccountType),
		CreatedAt:   a.CreatedAt.Format(dateLayout),
	}
}

// ToTransactionResponse converts domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount.StringFixed(2),
		Currency:      string(t.Currency),
		CreatedAt:     t.CreatedAt.Format(dateLayout),
	}
}

// ParseDate parses a day-granularity date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
