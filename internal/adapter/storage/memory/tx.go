package memory

import (
	"context"
	"errors"

	"galactic-bank-api/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var errNotSQL = errors.New("memory store does not execute SQL")

type balanceDelta struct {
	accountID string
	delta     decimal.Decimal
}

// memTx is the in-memory unit of work. It satisfies pgx.Tx so it can
// travel through the same ports as a real database transaction, but only
// Commit and Rollback are functional; the SQL surface is inert.
type memTx struct {
	store  *Store
	deltas []balanceDelta
	txns   []domain.Transaction
	done   bool
}

func (t *memTx) stagedDelta(accountID string) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range t.deltas {
		if d.accountID == accountID {
			sum = sum.Add(d.delta)
		}
	}
	return sum
}

// Commit applies all staged mutations and releases the store.
func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	for _, d := range t.deltas {
		a := t.store.accounts[d.accountID]
		a.Balance = a.Balance.Add(d.delta)
		t.store.accounts[d.accountID] = a
	}
	t.store.transactions = append(t.store.transactions, t.txns...)
	t.store.mu.Unlock()
	return nil
}

// Rollback discards all staged mutations and releases the store. Calling
// it after Commit is a no-op, so it is safe to defer.
func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.deltas = nil
	t.txns = nil
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errNotSQL
}

func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errNotSQL
}

func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (t *memTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errNotSQL
}

func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNotSQL
}

func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errNotSQL
}

func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{}
}

func (t *memTx) Conn() *pgx.Conn {
	return nil
}

type errRow struct{}

func (errRow) Scan(dest ...any) error { return errNotSQL }
