package memory

import (
	"context"
	"sync"
	"testing"

	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time port conformance.
var (
	_ ports.AccountRepository     = (*Store)(nil)
	_ ports.TransactionRepository = (*TransactionStore)(nil)
	_ ports.APIKeyRepository      = (*APIKeyStore)(nil)
	_ ports.DBTransactor          = (*Store)(nil)
)

func seedAccount(t *testing.T, s *Store, balance string) *domain.Account {
	t.Helper()
	a := &domain.Account{
		ID:          uuid.NewString(),
		Owner:       "Ada Starling",
		Balance:     decimal.RequireFromString(balance),
		Currency:    domain.CurrencyCosmicCoins,
		AccountType: domain.AccountTypeStandard,
		CreatedAt:   domain.Today(),
		OwnerKey:    uuid.New(),
	}
	require.NoError(t, s.Create(context.Background(), a))
	return a
}

func TestStore_AccountLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := seedAccount(t, s, "100.00")

	got, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Balance.Equal(a.Balance))

	require.NoError(t, s.SoftDelete(ctx, a.ID))

	got, err = s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "soft-deleted account should read as absent")

	err = s.SoftDelete(ctx, a.ID)
	assert.Error(t, err, "second delete should fail like an unknown id")
}

func TestStore_ListByOwnerKey(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := seedAccount(t, s, "100.00")
	other := seedAccount(t, s, "50.00")

	list, err := s.ListByOwnerKey(ctx, a.OwnerKey)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = s.ListByOwnerKey(ctx, other.OwnerKey)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)
}

func TestStore_CommitAppliesStagedMutations(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	src := seedAccount(t, s, "1000.00")
	dst := seedAccount(t, s, "0.00")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	amount := decimal.RequireFromString("250.00")
	require.NoError(t, s.AdjustBalance(ctx, tx, src.ID, amount.Neg()))
	require.NoError(t, s.AdjustBalance(ctx, tx, dst.ID, amount))
	require.NoError(t, s.CreateTransaction(ctx, tx, &domain.Transaction{
		ID:            uuid.NewString(),
		FromAccountID: src.ID,
		ToAccountID:   dst.ID,
		Amount:        amount,
		Currency:      domain.CurrencyCosmicCoins,
		CreatedAt:     domain.Today(),
	}))
	require.NoError(t, tx.Commit(ctx))

	got, err := s.GetByID(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, "750", got.Balance.String())

	got, err = s.GetByID(ctx, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, "250", got.Balance.String())

	txns, err := s.Transactions().List(ctx, ports.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestStore_RollbackDiscardsStagedMutations(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	src := seedAccount(t, s, "1000.00")
	dst := seedAccount(t, s, "0.00")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	amount := decimal.RequireFromString("250.00")
	require.NoError(t, s.AdjustBalance(ctx, tx, src.ID, amount.Neg()))
	require.NoError(t, s.AdjustBalance(ctx, tx, dst.ID, amount))
	require.NoError(t, s.CreateTransaction(ctx, tx, &domain.Transaction{
		ID:        uuid.NewString(),
		Amount:    amount,
		Currency:  domain.CurrencyCosmicCoins,
		CreatedAt: domain.Today(),
	}))
	require.NoError(t, tx.Rollback(ctx))

	got, err := s.GetByID(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000", got.Balance.String())

	got, err = s.GetByID(ctx, dst.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())

	txns, err := s.Transactions().List(ctx, ports.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestStore_ListTransactionsOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	records := []domain.Transaction{
		{ID: "tx-old", CreatedAt: domain.Today().AddDate(0, 0, -1)},
		{ID: "tx-c", CreatedAt: domain.Today()},
		{ID: "tx-a", CreatedAt: domain.Today()},
		{ID: "tx-b", CreatedAt: domain.Today()},
	}
	for i := range records {
		records[i].Amount = decimal.RequireFromString("1.00")
		records[i].Currency = domain.CurrencyCosmicCoins
		tx, err := s.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, s.CreateTransaction(ctx, tx, &records[i]))
		require.NoError(t, tx.Commit(ctx))
	}

	txns, err := s.Transactions().List(ctx, ports.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 4)

	// Newest day first; same-day records tie-break on id, matching the
	// database adapter's ORDER BY created_at DESC, id.
	ids := []string{txns[0].ID, txns[1].ID, txns[2].ID, txns[3].ID}
	assert.Equal(t, []string{"tx-a", "tx-b", "tx-c", "tx-old"}, ids)
}

func TestStore_StagedDeltaVisibleWithinUnitOfWork(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := seedAccount(t, s, "100.00")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	require.NoError(t, s.AdjustBalance(ctx, tx, a.ID, decimal.RequireFromString("-40.00")))

	got, err := s.GetByIDForUpdate(ctx, tx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "60", got.Balance.String())
}

func TestStore_AdjustBalanceRejectsOverdraft(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := seedAccount(t, s, "100.00")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = s.AdjustBalance(ctx, tx, a.ID, decimal.RequireFromString("-100.01"))
	assert.Error(t, err)
}

func TestStore_ConcurrentTransfersConserveTotal(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	src := seedAccount(t, s, "1000.00")
	dst := seedAccount(t, s, "0.00")

	const workers = 10
	amount := decimal.RequireFromString("10.00")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := s.Begin(ctx)
			if err != nil {
				return
			}
			if err := s.AdjustBalance(ctx, tx, src.ID, amount.Neg()); err != nil {
				_ = tx.Rollback(ctx)
				return
			}
			if err := s.AdjustBalance(ctx, tx, dst.ID, amount); err != nil {
				_ = tx.Rollback(ctx)
				return
			}
			_ = tx.Commit(ctx)
		}()
	}
	wg.Wait()

	a, err := s.GetByID(ctx, src.ID)
	require.NoError(t, err)
	b, err := s.GetByID(ctx, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000", a.Balance.Add(b.Balance).String())
	assert.Equal(t, "100", b.Balance.String())
}

func TestStore_APIKeys(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	keys := s.APIKeys()

	k := &domain.APIKey{ID: uuid.New(), OwnerName: "Demo Station", KeyHash: "abc123"}
	require.NoError(t, keys.Create(ctx, k))

	got, err := keys.GetByHash(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, k.ID, got.ID)

	got, err = keys.GetByHash(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}
