package ports

import (
	"context"

	"galactic-bank-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// TransactionService is the transaction processor: it validates a proposed
// money movement, applies the two-sided balance mutation and the record
// append as one unit of work, and returns the created record or a typed
// failure. Process is deliberately not idempotent: every call that passes
// validation commits exactly one transfer.
type TransactionService interface {
	Process(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

// TransferRequest holds the parsed input for one money movement.
// FromAccountID may be domain.ExternalSourceID for deposits.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Currency      domain.Currency
}

// AccountService defines account management business logic.
type AccountService interface {
	Create(ctx context.Context, req CreateAccountRequest) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	ListOwned(ctx context.Context, ownerKey uuid.UUID) ([]domain.Account, error)
	// SoftDelete marks the account deleted. Only the owning key may delete.
	SoftDelete(ctx context.Context, id string, callerKey uuid.UUID) error
}

// CreateAccountRequest holds input for account creation.
type CreateAccountRequest struct {
	Owner          string
	Currency       domain.Currency
	AccountType    domain.AccountType
	OpeningBalance decimal.Decimal // zero means no opening deposit
	OwnerKey       uuid.UUID
}

// APIKeyService issues and authenticates API keys.
type APIKeyService interface {
	// Issue creates a key and returns it with the raw secret, shown once.
	Issue(ctx context.Context, ownerName string) (*domain.APIKey, string, error)
	// Authenticate resolves a raw key to its record, or nil if unknown.
	Authenticate(ctx context.Context, rawKey string) (*domain.APIKey, error)
}
