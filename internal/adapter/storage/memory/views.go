package memory

import (
	"context"

	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// TransactionStore exposes the store as a ports.TransactionRepository.
type TransactionStore struct {
	store *Store
}

// Transactions returns the transaction-repository view of the store.
func (s *Store) Transactions() *TransactionStore {
	return &TransactionStore{store: s}
}

func (v *TransactionStore) Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error {
	return v.store.CreateTransaction(ctx, tx, transaction)
}

func (v *TransactionStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return v.store.GetTransactionByID(ctx, id)
}

func (v *TransactionStore) List(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	return v.store.ListTransactions(ctx, filter)
}

// APIKeyStore exposes the store as a ports.APIKeyRepository.
type APIKeyStore struct {
	store *Store
}

// APIKeys returns the API-key-repository view of the store.
func (s *Store) APIKeys() *APIKeyStore {
	return &APIKeyStore{store: s}
}

func (v *APIKeyStore) Create(ctx context.Context, key *domain.APIKey) error {
	return v.store.CreateAPIKey(ctx, key)
}

func (v *APIKeyStore) GetByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	return v.store.GetAPIKeyByHash(ctx, keyHash)
}
