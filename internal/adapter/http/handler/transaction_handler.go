package handler

import (
	"galactic-bank-api/internal/adapter/http/dto"
	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"
	"galactic-bank-api/pkg/apperror"
	"galactic-bank-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionHandler handles transaction processing and reads.
type TransactionHandler struct {
	txSvc ports.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txSvc ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{txSvc: txSvc}
}

// Process handles POST /api/v1/transactions. A committed transaction is
// acknowledged with just its id; callers read back details separately.
func (h *TransactionHandler) Process(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.txSvc.Process(c.Request.Context(), ports.TransferRequest{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Currency:      domain.Currency(req.Currency),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TransactionCreatedResponse{TransactionID: txn.ID})
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	txn, err := h.txSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToTransactionResponse(txn))
}

// List handles GET /api/v1/transactions with optional from_account_id,
// to_account_id and created_at (YYYY-MM-DD) query filters.
func (h *TransactionHandler) List(c *gin.Context) {
	var filter ports.TransactionFilter

	if from := c.Query("from_account_id"); from != "" {
		filter.FromAccountID = &from
	}
	if to := c.Query("to_account_id"); to != "" {
		filter.ToAccountID = &to
	}
	if day := c.Query("created_at"); day != "" {
		parsed, err := dto.ParseDate(day)
		if err != nil {
			response.Error(c, apperror.Validation("created_at must be a YYYY-MM-DD date"))
			return
		}
		filter.CreatedAt = &parsed
	}

	txns, err := h.txSvc.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, dto.ToTransactionResponse(&txns[i]))
	}
	response.OK(c, out)
}
