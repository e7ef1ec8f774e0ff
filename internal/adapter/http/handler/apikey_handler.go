package handler

import (
	"time"

	"galactic-bank-api/internal/adapter/http/dto"
	"galactic-bank-api/internal/core/ports"
	"galactic-bank-api/pkg/apperror"
	"galactic-bank-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// APIKeyHandler handles API key issuance.
type APIKeyHandler struct {
	keySvc ports.APIKeyService
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(keySvc ports.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keySvc: keySvc}
}

// Issue handles POST /api/v1/keys.
func (h *APIKeyHandler) Issue(c *gin.Context) {
	var req dto.IssueKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	key, rawKey, err := h.keySvc.Issue(c.Request.Context(), req.OwnerName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.IssueKeyResponse{
		KeyID:     key.ID.String(),
		OwnerName: key.OwnerName,
		APIKey:    rawKey,
		CreatedAt: key.CreatedAt.Format(time.RFC3339),
	})
}
