// Package memory provides an in-process store implementing the same
// repository and transactor ports as the postgres adapter. It backs the
// integration tests and the zero-dependency demo mode.
package memory

import (
	"context"
	"fmt"
	"sync"

	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Store holds all state behind a single mutex. Begin acquires the mutex
// for the whole unit of work, so units of work are serialized and every
// mutation inside one commits or rolls back as a whole, matching the
// database adapter's atomicity.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]domain.Account
	transactions []domain.Transaction
	apiKeys      map[string]domain.APIKey // by key hash
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		apiKeys:  make(map[string]domain.APIKey),
	}
}

// Begin starts a unit of work. The store mutex is held until Commit or
// Rollback, so do not call the plain repository methods from the same
// goroutine while a unit of work is open.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &memTx{store: s}, nil
}

// --- AccountRepository ---

func (s *Store) Create(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; ok {
		return fmt.Errorf("account already exists: %s", account.ID)
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLive(id), nil
}

func (s *Store) ListByOwnerKey(ctx context.Context, ownerKey uuid.UUID) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Account
	for _, a := range s.accounts {
		if !a.Deleted && a.OwnerKey == ownerKey {
			out = append(out, a)
		}
	}
	sortAccounts(out)
	return out, nil
}

func (s *Store) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok || a.Deleted {
		return fmt.Errorf("account not found: %s", id)
	}
	a.Deleted = true
	s.accounts[id] = a
	return nil
}

// GetByIDForUpdate reads an account inside a unit of work. The caller's
// earlier staged deltas are folded into the returned balance.
func (s *Store) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	mt, err := s.ownTx(tx)
	if err != nil {
		return nil, err
	}
	a := s.getLive(id)
	if a == nil {
		return nil, nil
	}
	a.Balance = a.Balance.Add(mt.stagedDelta(id))
	return a, nil
}

// AdjustBalance stages balance += delta; the change becomes visible on
// Commit. Staging fails if it would take the balance negative, matching
// the database CHECK constraint.
func (s *Store) AdjustBalance(ctx context.Context, tx pgx.Tx, id string, delta decimal.Decimal) error {
	mt, err := s.ownTx(tx)
	if err != nil {
		return err
	}
	a := s.getLive(id)
	if a == nil {
		return fmt.Errorf("account not found: %s", id)
	}
	next := a.Balance.Add(mt.stagedDelta(id)).Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("balance constraint violated for account %s", id)
	}
	mt.deltas = append(mt.deltas, balanceDelta{accountID: id, delta: delta})
	return nil
}

// --- TransactionRepository ---

// CreateTransaction stages an audit-trail record inside a unit of work.
// Named to avoid colliding with the account Create on the same type; the
// ports.TransactionRepository view is exposed via TransactionStore.
func (s *Store) CreateTransaction(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error {
	mt, err := s.ownTx(tx)
	if err != nil {
		return err
	}
	mt.txns = append(mt.txns, *transaction)
	return nil
}

func (s *Store) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.transactions {
		if s.transactions[i].ID == id {
			t := s.transactions[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	for _, t := range s.transactions {
		if filter.FromAccountID != nil && t.FromAccountID != *filter.FromAccountID {
			continue
		}
		if filter.ToAccountID != nil && t.ToAccountID != *filter.ToAccountID {
			continue
		}
		if filter.CreatedAt != nil && !t.CreatedAt.Equal(*filter.CreatedAt) {
			continue
		}
		out = append(out, t)
	}
	sortTransactions(out)
	return out, nil
}

// --- APIKeyRepository ---

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apiKeys[key.KeyHash]; ok {
		return fmt.Errorf("api key already exists")
	}
	s.apiKeys[key.KeyHash] = *key
	return nil
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.apiKeys[keyHash]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

// getLive returns a copy of a live account, or nil. Callers hold s.mu.
func (s *Store) getLive(id string) *domain.Account {
	a, ok := s.accounts[id]
	if !ok || a.Deleted {
		return nil
	}
	return &a
}

// ownTx checks that tx belongs to this store and is still open.
func (s *Store) ownTx(tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != s {
		return nil, fmt.Errorf("tx does not belong to this store")
	}
	if mt.done {
		return nil, pgx.ErrTxClosed
	}
	return mt, nil
}

func sortTransactions(txns []domain.Transaction) {
	// Newest day first, id as the tiebreak within a day, matching the
	// database adapter's ORDER BY created_at DESC, id.
	for i := 1; i < len(txns); i++ {
		for j := i; j > 0; j-- {
			a, b := txns[j-1], txns[j]
			if a.CreatedAt.After(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID) {
				break
			}
			txns[j-1], txns[j] = b, a
		}
	}
}

func sortAccounts(accounts []domain.Account) {
	// Creation order is day-granular, so break ties on id like the
	// database adapter does.
	for i := 1; i < len(accounts); i++ {
		for j := i; j > 0; j-- {
			a, b := accounts[j-1], accounts[j]
			if a.CreatedAt.Before(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID) {
				break
			}
			accounts[j-1], accounts[j] = b, a
		}
	}
}
