package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
// The transactions table is append-only: there is no update or delete path.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction record within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, from_account_id, to_account_id, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.FromAccountID, t.ToAccountID, t.Amount, t.Currency, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by id.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT id, from_account_id, to_account_id, amount, currency, created_at
		FROM transactions WHERE id = $1`

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.FromAccountID, &t.ToAccountID, &t.Amount, &t.Currency, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

// List fetches transactions matching the filter, newest first.
func (r *TransactionRepo) List(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filter.FromAccountID != nil {
		conditions = append(conditions, fmt.Sprintf("from_account_id = $%d", argIdx))
		args = append(args, *filter.FromAccountID)
		argIdx++
	}
	if filter.ToAccountID != nil {
		conditions = append(conditions, fmt.Sprintf("to_account_id = $%d", argIdx))
		args = append(args, *filter.ToAccountID)
		argIdx++
	}
	if filter.CreatedAt != nil {
		conditions = append(conditions, fmt.Sprintf("created_at = $%d", argIdx))
		args = append(args, *filter.CreatedAt)
	}

	query := `SELECT id, from_account_id, to_account_id, amount, currency, created_at FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &t.Amount, &t.Currency, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
