package service

import (
	"context"
	"fmt"

	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"
	"galactic-bank-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransactionServiceImpl implements ports.TransactionService with
// pessimistic locking on the source account.
type TransactionServiceImpl struct {
	txRepo      ports.TransactionRepository
	accountRepo ports.AccountRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(
	txRepo ports.TransactionRepository,
	accountRepo ports.AccountRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		transactor:  transactor,
		log:         log,
	}
}

// Process validates and executes one money movement. Validation runs in a
// fixed order: amount, destination existence, source existence, currency
// match, then funds. The balance mutations and the record append commit as
// one unit of work; a deposit (source "0") mints currency and skips the
// source-side checks entirely.
func (s *TransactionServiceImpl) Process(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return nil, apperror.Validation("amount must have at most two decimal places")
	}

	dest, err := s.accountRepo.GetByID(ctx, req.ToAccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load destination account: %w", err))
	}
	if dest == nil {
		return nil, apperror.ErrNotFound("destination account")
	}

	isDeposit := req.FromAccountID == domain.ExternalSourceID
	if !isDeposit {
		src, err := s.accountRepo.GetByID(ctx, req.FromAccountID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("load source account: %w", err))
		}
		if src == nil {
			return nil, apperror.ErrNotFound("source account")
		}
	}

	if !req.Currency.Valid() {
		return nil, apperror.ErrUnknownCurrency(string(req.Currency))
	}
	if dest.Currency != req.Currency {
		return nil, apperror.ErrCurrencyMismatch()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrProcessingFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if !isDeposit {
		// Lock the source row for the funds check. The destination credit
		// below also holds its row lock until commit, so opposing
		// concurrent transfers can abort in the database; the abort rolls
		// back cleanly and surfaces as a processing failure.
		src, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, req.FromAccountID)
		if err != nil {
			return nil, apperror.ErrProcessingFailure(fmt.Errorf("lock source account: %w", err))
		}
		if src == nil {
			return nil, apperror.ErrNotFound("source account")
		}
		if src.Balance.LessThan(req.Amount) {
			return nil, apperror.ErrInsufficientFunds()
		}
		if err := s.accountRepo.AdjustBalance(ctx, dbTx, req.FromAccountID, req.Amount.Neg()); err != nil {
			return nil, apperror.ErrProcessingFailure(fmt.Errorf("debit source: %w", err))
		}
	}

	if err := s.accountRepo.AdjustBalance(ctx, dbTx, req.ToAccountID, req.Amount); err != nil {
		return nil, apperror.ErrProcessingFailure(fmt.Errorf("credit destination: %w", err))
	}

	txn := &domain.Transaction{
		ID:            uuid.NewString(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		CreatedAt:     domain.Today(),
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrProcessingFailure(fmt.Errorf("create transaction record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrProcessingFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("from", txn.FromAccountID).
		Str("to", txn.ToAccountID).
		Str("amount", txn.Amount.String()).
		Str("currency", string(txn.Currency)).
		Msg("transaction processed")

	return txn, nil
}

// GetByID fetches a single transaction record.
func (s *TransactionServiceImpl) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	return txn, nil
}

// List fetches the audit trail, newest first.
func (s *TransactionServiceImpl) List(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	txns, err := s.txRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}
