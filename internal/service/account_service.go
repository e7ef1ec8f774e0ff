package service

import (
	"context"
	"fmt"

	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"
	"galactic-bank-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
	txService   ports.TransactionService
	log         zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	accountRepo ports.AccountRepository,
	txService ports.TransactionService,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		txService:   txService,
		log:         log,
	}
}

// Create opens an account. A positive opening balance is funded through
// the transaction processor as an external deposit, so it shows up on the
// audit trail like any other movement.
func (s *AccountServiceImpl) Create(ctx context.Context, req ports.CreateAccountRequest) (*domain.Account, error) {
	if req.Owner == "" {
		return nil, apperror.Validation("owner is required")
	}
	if !req.Currency.Valid() {
		return nil, apperror.ErrUnknownCurrency(string(req.Currency))
	}
	if !req.AccountType.Valid() {
		return nil, apperror.Validation("unknown account type: " + string(req.AccountType))
	}
	if req.OpeningBalance.IsNegative() {
		return nil, apperror.Validation("opening balance must not be negative")
	}
	// Same rule the transaction processor applies to amounts. Checked here
	// so a rejected opening deposit cannot leave an empty account behind.
	if !req.OpeningBalance.Equal(req.OpeningBalance.Round(2)) {
		return nil, apperror.Validation("opening balance must have at most two decimal places")
	}

	account := &domain.Account{
		ID:          uuid.NewString(),
		Owner:       req.Owner,
		Balance:     decimal.Zero,
		Currency:    req.Currency,
		AccountType: req.AccountType,
		CreatedAt:   domain.Today(),
		OwnerKey:    req.OwnerKey,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	if req.OpeningBalance.IsPositive() {
		txn, err := s.txService.Process(ctx, ports.TransferRequest{
			FromAccountID: domain.ExternalSourceID,
			ToAccountID:   account.ID,
			Amount:        req.OpeningBalance,
			Currency:      req.Currency,
		})
		if err != nil {
			return nil, err
		}
		account.Balance = req.OpeningBalance
		s.log.Info().
			Str("account_id", account.ID).
			Str("tx_id", txn.ID).
			Str("opening_balance", req.OpeningBalance.String()).
			Msg("opening deposit applied")
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("currency", string(account.Currency)).
		Str("account_type", string(account.AccountType)).
		Msg("account created")

	return account, nil
}

// GetByID fetches a live account.
func (s *AccountServiceImpl) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}
	return account, nil
}

// ListOwned fetches all live accounts issued under the caller's key.
func (s *AccountServiceImpl) ListOwned(ctx context.Context, ownerKey uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListByOwnerKey(ctx, ownerKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}

// SoftDelete marks an account deleted, preserving its transaction history.
// The balance is retained but unreachable: a deleted account can be
// neither source nor destination of new transactions.
func (s *AccountServiceImpl) SoftDelete(ctx context.Context, id string, callerKey uuid.UUID) error {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return apperror.ErrNotFound("account")
	}
	if account.OwnerKey != callerKey {
		return apperror.ErrNotOwner()
	}

	if err := s.accountRepo.SoftDelete(ctx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("soft delete account: %w", err))
	}

	s.log.Info().Str("account_id", id).Msg("account soft-deleted")
	return nil
}
