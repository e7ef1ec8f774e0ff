package postgres

import (
	"context"
	"errors"
	"fmt"

	"galactic-bank-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepo implements ports.AccountRepository.
// Soft-deleted rows are filtered in every read: a deleted account is
// indistinguishable from an unknown one at this layer.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, owner, balance, currency, account_type, created_at, owner_key, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Owner, a.Balance, a.Currency, a.AccountType, a.CreatedAt, a.OwnerKey,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches a live account by id (without locking).
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT id, owner, balance, currency, account_type, created_at, owner_key, deleted
		FROM accounts WHERE id = $1 AND NOT deleted`

	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

// ListByOwnerKey fetches all live accounts created under the given API key.
func (r *AccountRepo) ListByOwnerKey(ctx context.Context, ownerKey uuid.UUID) ([]domain.Account, error) {
	query := `SELECT id, owner, balance, currency, account_type, created_at, owner_key, deleted
		FROM accounts WHERE owner_key = $1 AND NOT deleted ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a := domain.Account{}
		err := rows.Scan(
			&a.ID, &a.Owner, &a.Balance, &a.Currency,
			&a.AccountType, &a.CreatedAt, &a.OwnerKey, &a.Deleted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// SoftDelete marks an account deleted. The row stays in place so existing
// transaction records keep resolving.
func (r *AccountRepo) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE accounts SET deleted = TRUE WHERE id = $1 AND NOT deleted`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}

// GetByIDForUpdate fetches a live account with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Account, error) {
	query := `SELECT id, owner, balance, currency, account_type, created_at, owner_key, deleted
		FROM accounts WHERE id = $1 AND NOT deleted FOR UPDATE`

	return scanAccount(tx.QueryRow(ctx, query, id))
}

// AdjustBalance applies balance += delta as one statement inside the
// caller's transaction. The accounts.balance CHECK constraint backs the
// no-negative-balance invariant at the database.
func (r *AccountRepo) AdjustBalance(ctx context.Context, tx pgx.Tx, id string, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $1 WHERE id = $2 AND NOT deleted`

	tag, err := tx.Exec(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", id)
	}
	return nil
}

// scanAccount is a helper to scan a single row into an Account.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Owner, &a.Balance, &a.Currency,
		&a.AccountType, &a.CreatedAt, &a.OwnerKey, &a.Deleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}
