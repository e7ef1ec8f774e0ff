package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	httpHandler "galactic-bank-api/internal/adapter/http/handler"
	"galactic-bank-api/internal/adapter/storage/memory"
	redisStorage "galactic-bank-api/internal/adapter/storage/redis"
	"galactic-bank-api/internal/seed"
	"galactic-bank-api/internal/service"
	"galactic-bank-api/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack on the in-memory store with
// rate limiting backed by miniredis. It exercises the real HTTP layer,
// middleware, handlers, and services end-to-end, seeded with the demo
// data set.
type testApp struct {
	t      *testing.T
	server *httptest.Server
	store  *memory.Store
	redis  *miniredis.Miniredis
	apiKey string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := memory.NewStore()
	log := logger.New("error", false)

	txSvc := service.NewTransactionService(store.Transactions(), store, store, log)
	accountSvc := service.NewAccountService(store, txSvc, log)
	keySvc := service.NewAPIKeyService(store.APIKeys(), log)

	require.NoError(t, seed.Run(t.Context(), store.APIKeys(), accountSvc, log))

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		TransactionSvc: txSvc,
		AccountSvc:     accountSvc,
		APIKeySvc:      keySvc,
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		Logger:         log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		t:      t,
		server: server,
		store:  store,
		redis:  mr,
		apiKey: seed.DemoAPIKey,
	}
}

// do sends an authenticated JSON request and decodes the response body.
func (a *testApp) do(method, path string, payload any) (int, map[string]interface{}) {
	a.t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(a.t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", a.apiKey)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// createAccount opens an account over HTTP and returns its id.
func (a *testApp) createAccount(owner, currency, acctType, openingBalance string) string {
	a.t.Helper()

	status, resp := a.do(http.MethodPost, "/api/v1/accounts", map[string]string{
		"owner":           owner,
		"currency":        currency,
		"account_type":    acctType,
		"opening_balance": openingBalance,
	})
	require.Equal(a.t, http.StatusCreated, status, "create account: %v", resp)
	return resp["data"].(map[string]interface{})["account_id"].(string)
}

// transfer posts a transaction and returns the HTTP status and body.
func (a *testApp) transfer(from, to, amount, currency string) (int, map[string]interface{}) {
	a.t.Helper()
	return a.do(http.MethodPost, "/api/v1/transactions", map[string]string{
		"from_account_id": from,
		"to_account_id":   to,
		"amount":          amount,
		"currency":        currency,
	})
}

// balance reads an account's balance over HTTP.
func (a *testApp) balance(accountID string) string {
	a.t.Helper()

	status, resp := a.do(http.MethodGet, "/api/v1/accounts/"+accountID, nil)
	require.Equal(a.t, http.StatusOK, status, "get account: %v", resp)
	return resp["data"].(map[string]interface{})["balance"].(string)
}

func errorCode(resp map[string]interface{}) string {
	code, _ := resp["error_code"].(string)
	return code
}

func transactionID(resp map[string]interface{}) string {
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := data["transaction_id"].(string)
	return id
}
