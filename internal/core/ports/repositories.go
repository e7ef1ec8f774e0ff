package ports

import (
	"context"
	"time"

	"galactic-bank-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// AccountRepository is the account ledger store. GetByID and List return
// only live accounts: unknown and soft-deleted ids both read as absent.
// Methods accepting pgx.Tx run inside a unit of work; AdjustBalance is the
// only balance mutation and is never available outside one.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	ListByOwnerKey(ctx context.Context, ownerKey uuid.UUID) ([]domain.Account, error)
	SoftDelete(ctx context.Context, id string) error
	// GetByIDForUpdate locks the account row for the remainder of the unit
	// of work. Used for the source-funds check during a transfer.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error)
	// AdjustBalance applies balance += delta as a single statement within
	// the caller's unit of work. Deltas in one unit of work apply in issue
	// order and commit or roll back together.
	AdjustBalance(ctx context.Context, tx pgx.Tx, id string, delta decimal.Decimal) error
}

// TransactionRepository persists the append-only transaction audit trail.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

// TransactionFilter narrows a transaction listing. Nil fields match all.
type TransactionFilter struct {
	FromAccountID *string
	ToAccountID   *string
	CreatedAt     *time.Time // day granularity
}

// APIKeyRepository persists issued API keys (hash only).
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) error
	GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
}

// DBTransactor provides the unit-of-work primitive: a scoped, atomic
// sequence of mutations that commits or rolls back as a whole.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
