package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"galactic-bank-api/internal/adapter/http/dto"
	"galactic-bank-api/internal/adapter/http/middleware"
	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"
	"galactic-bank-api/internal/core/ports/mocks"
	"galactic-bank-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, path string, payload any) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- API Key Handler Tests ---

func TestIssueKey_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKeys := mocks.NewMockAPIKeyService(ctrl)
	h := NewAPIKeyHandler(mockKeys)

	keyID := uuid.New()
	mockKeys.EXPECT().Issue(gomock.Any(), "Demo Station").Return(&domain.APIKey{
		ID:        keyID,
		OwnerName: "Demo Station",
		CreatedAt: time.Now().UTC(),
	}, "gb_live_secret", nil)

	w, c := postJSON(t, "/api/v1/keys", dto.IssueKeyRequest{OwnerName: "Demo Station"})
	h.Issue(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, keyID.String(), data["key_id"])
	assert.Equal(t, "gb_live_secret", data["api_key"])
}

func TestIssueKey_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAPIKeyHandler(mocks.NewMockAPIKeyService(ctrl))

	w, c := postJSON(t, "/api/v1/keys", map[string]string{})
	h.Issue(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Account Handler Tests ---

func TestCreateAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	ownerKey := uuid.New()
	opening := decimal.RequireFromString("10000.00")

	mockAccounts.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req ports.CreateAccountRequest) (*domain.Account, error) {
			assert.Equal(t, "Ada Starling", req.Owner)
			assert.Equal(t, domain.CurrencyCosmicCoins, req.Currency)
			assert.Equal(t, ownerKey, req.OwnerKey)
			assert.True(t, opening.Equal(req.OpeningBalance))
			return &domain.Account{
				ID:          "acc-1",
				Owner:       req.Owner,
				Balance:     req.OpeningBalance,
				Currency:    req.Currency,
				AccountType: req.AccountType,
				CreatedAt:   domain.Today(),
				OwnerKey:    ownerKey,
			}, nil
		})

	w, c := postJSON(t, "/api/v1/accounts", dto.CreateAccountRequest{
		Owner:          "Ada Starling",
		Currency:       "COSMIC_COINS",
		AccountType:    "STANDARD",
		OpeningBalance: opening,
	})
	c.Set(middleware.CtxKeyID, ownerKey)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "acc-1", data["account_id"])
	assert.Equal(t, "10000.00", data["balance"])
}

func TestCreateAccount_UnknownCurrencyRejectedAtBind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAccountHandler(mocks.NewMockAccountService(ctrl))

	w, c := postJSON(t, "/api/v1/accounts", dto.CreateAccountRequest{
		Owner:       "Ada Starling",
		Currency:    "PLUTO_PESOS",
		AccountType: "STANDARD",
	})
	c.Set(middleware.CtxKeyID, uuid.New())
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAccount_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	mockAccounts.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, apperror.ErrNotFound("account"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ACC_001", resp["error_code"])
}

func TestDeleteAccount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	ownerKey := uuid.New()
	mockAccounts.EXPECT().SoftDelete(gomock.Any(), "acc-1", ownerKey).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/acc-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "acc-1"}}
	c.Set(middleware.CtxKeyID, ownerKey)
	h.Delete(c)
	// c.Status defers the header write; the gin engine flushes it after the
	// handler chain, which CreateTestContext bypasses.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteAccount_NotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockAccountService(ctrl)
	h := NewAccountHandler(mockAccounts)

	mockAccounts.EXPECT().SoftDelete(gomock.Any(), "acc-1", gomock.Any()).Return(apperror.ErrNotOwner())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/acc-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "acc-1"}}
	c.Set(middleware.CtxKeyID, uuid.New())
	h.Delete(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// --- Transaction Handler Tests ---

func TestProcessTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTx)

	amount := decimal.RequireFromString("500.00")
	mockTx.EXPECT().Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req ports.TransferRequest) (*domain.Transaction, error) {
			assert.Equal(t, "acc-1", req.FromAccountID)
			assert.Equal(t, "acc-2", req.ToAccountID)
			assert.True(t, amount.Equal(req.Amount))
			return &domain.Transaction{
				ID:            "tx-1",
				FromAccountID: req.FromAccountID,
				ToAccountID:   req.ToAccountID,
				Amount:        req.Amount,
				Currency:      req.Currency,
				CreatedAt:     domain.Today(),
			}, nil
		})

	w, c := postJSON(t, "/api/v1/transactions", gin.H{
		"from_account_id": "acc-1",
		"to_account_id":   "acc-2",
		"amount":          "500.00",
		"currency":        "COSMIC_COINS",
	})
	h.Process(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "tx-1", data["transaction_id"])
	// Acknowledgement carries only the id.
	assert.Len(t, data, 1)
}

func TestProcessTransaction_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTx)

	mockTx.EXPECT().Process(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientFunds())

	w, c := postJSON(t, "/api/v1/transactions", gin.H{
		"from_account_id": "acc-1",
		"to_account_id":   "acc-2",
		"amount":          "500.00",
		"currency":        "COSMIC_COINS",
	})
	h.Process(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TXN_001", resp["error_code"])
}

func TestProcessTransaction_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewTransactionHandler(mocks.NewMockTransactionService(ctrl))

	w, c := postJSON(t, "/api/v1/transactions", gin.H{"amount": "10.00"})
	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTransactions_Filtered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockTx)

	mockTx.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, filter ports.TransactionFilter) ([]domain.Transaction, error) {
			require.NotNil(t, filter.FromAccountID)
			assert.Equal(t, "acc-1", *filter.FromAccountID)
			require.NotNil(t, filter.CreatedAt)
			assert.Equal(t, 2026, filter.CreatedAt.Year())
			return []domain.Transaction{{
				ID:            "tx-1",
				FromAccountID: "acc-1",
				ToAccountID:   "acc-2",
				Amount:        decimal.RequireFromString("5.00"),
				Currency:      domain.CurrencyCosmicCoins,
				CreatedAt:     domain.Today(),
			}}, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/api/v1/transactions?from_account_id=acc-1&created_at=2026-08-28", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListTransactions_BadDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewTransactionHandler(mocks.NewMockTransactionService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/transactions?created_at=yesterday", nil)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Handler Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(_ context.Context) error { return s.err }
func (s stubChecker) Name() string                 { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(stubChecker{name: "postgresql", err: errUnreachable})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}

var errUnreachable = errors.New("connection refused")

// --- Router Tests ---

func TestRouter_AccountsRequireAPIKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKeys := mocks.NewMockAPIKeyService(ctrl)
	r := SetupRouter(RouterDeps{
		TransactionSvc: mocks.NewMockTransactionService(ctrl),
		AccountSvc:     mocks.NewMockAccountService(ctrl),
		APIKeySvc:      mockKeys,
		Logger:         zerolog.Nop(),
	})

	// Missing header: rejected before any service call.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown key: same 401.
	mockKeys.EXPECT().Authenticate(gomock.Any(), "gb_live_bogus").Return(nil, nil)
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(middleware.HeaderAPIKey, "gb_live_bogus")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_HealthIsPublic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := SetupRouter(RouterDeps{
		TransactionSvc: mocks.NewMockTransactionService(ctrl),
		AccountSvc:     mocks.NewMockAccountService(ctrl),
		APIKeySvc:      mocks.NewMockAPIKeyService(ctrl),
		Logger:         zerolog.Nop(),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
