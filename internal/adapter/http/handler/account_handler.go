package handler

import (
	"galactic-bank-api/internal/adapter/http/dto"
	"galactic-bank-api/internal/adapter/http/middleware"
	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"
	"galactic-bank-api/pkg/apperror"
	"galactic-bank-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles account management endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// callerKey extracts the authenticated key id set by the auth middleware.
func callerKey(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxKeyID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Create handles POST /api/v1/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	key, ok := callerKey(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAPIKey())
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	account, err := h.accountSvc.Create(c.Request.Context(), ports.CreateAccountRequest{
		Owner:          req.Owner,
		Currency:       domain.Currency(req.Currency),
		AccountType:    domain.AccountType(req.AccountType),
		OpeningBalance: req.OpeningBalance,
		OwnerKey:       key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToAccountResponse(account))
}

// Get handles GET /api/v1/accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.accountSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAccountResponse(account))
}

// List handles GET /api/v1/accounts. Only the caller's own accounts are
// returned.
func (h *AccountHandler) List(c *gin.Context) {
	key, ok := callerKey(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAPIKey())
		return
	}

	accounts, err := h.accountSvc.ListOwned(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, dto.ToAccountResponse(&accounts[i]))
	}
	response.OK(c, out)
}

// Delete handles DELETE /api/v1/accounts/:id (soft delete).
func (h *AccountHandler) Delete(c *gin.Context) {
	key, ok := callerKey(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAPIKey())
		return
	}

	if err := h.accountSvc.SoftDelete(c.Request.Context(), c.Param("id"), key); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
