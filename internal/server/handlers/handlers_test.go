package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterso/event-sourced-ledger/internal/ledger"
	"github.com/peterso/event-sourced-ledger/internal/server/handlers"
	"github.com/peterso/event-sourced-ledger/internal/storage/memory"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := ledger.NewLedger(memory.NewMemoryEventStore(), nil, zerolog.Nop())
	router := gin.New()
	handlers.New(engine, zerolog.Nop()).SetupHandlers(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func loadBody(userID, messageID, amount, direction string) handlers.LoadRequest {
	return handlers.LoadRequest{
		UserID:    userID,
		MessageID: messageID,
		TransactionAmount: handlers.AmountDTO{
			Amount:        amount,
			Currency:      "USD",
			DebitOrCredit: direction,
		},
	}
}

func authBody(userID, messageID, amount, direction string) handlers.AuthorizationRequest {
	return handlers.AuthorizationRequest{
		UserID:    userID,
		MessageID: messageID,
		TransactionAmount: handlers.AmountDTO{
			Amount:        amount,
			Currency:      "USD",
			DebitOrCredit: direction,
		},
	}
}

func TestLoadReturnsCreatedWithNewBalance(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "100.00", "CREDIT"))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var response handlers.LoadResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "1", response.UserID)
	assert.Equal(t, "m1", response.MessageID)
	assert.Equal(t, "100.00", response.Balance.Amount)
	assert.Equal(t, "USD", response.Balance.Currency)
	assert.Equal(t, "CREDIT", response.Balance.DebitOrCredit)
}

func TestLoadAcceptsLowercaseDirection(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "10.00", "credit"))
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestLoadRejectsBlankUserID(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPut, "/load", loadBody("", "m1", "10.00", "CREDIT"))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Message)
	assert.Equal(t, "400 BAD_REQUEST", response.Code)
}

func TestLoadRejectsInvalidAmounts(t *testing.T) {
	router := newTestRouter()

	for _, amount := range []string{"-10", "10.101", "abc"} {
		recorder := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", amount, "CREDIT"))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "amount %q", amount)
	}
}

func TestLoadRejectsDebitAmount(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "10.00", "DEBIT"))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAuthorizationDeclinesWhenBalanceTooLow(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPut, "/authorization", authBody("1", "m1", "50.01", "DEBIT"))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var response handlers.AuthorizationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "DECLINED", response.ResponseCode)
	assert.Equal(t, "0.00", response.Balance.Amount)
	assert.Equal(t, "DEBIT", response.Balance.DebitOrCredit)
}

func TestAuthorizationApprovesAgainstLoadedBalance(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "100.00", "CREDIT"))
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodPut, "/authorization", authBody("1", "m2", "40.00", "DEBIT"))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var response handlers.AuthorizationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "APPROVED", response.ResponseCode)
	assert.Equal(t, "60.00", response.Balance.Amount)
}

func TestAuthorizationRejectsCreditAmount(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPut, "/authorization", authBody("1", "m1", "10.00", "CREDIT"))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDuplicateMessageOverHTTPDoesNotDoubleCount(t *testing.T) {
	router := newTestRouter()

	first := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "10.00", "CREDIT"))
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "10.00", "CREDIT"))
	require.Equal(t, http.StatusCreated, second.Code)

	var response handlers.LoadResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &response))
	assert.Equal(t, "10.00", response.Balance.Amount)
}

func TestAuthorizationReusingLoadMessageIDConflicts(t *testing.T) {
	router := newTestRouter()

	first := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "10.00", "CREDIT"))
	require.Equal(t, http.StatusCreated, first.Code)

	recorder := doJSON(t, router, http.MethodPut, "/authorization", authBody("1", "m1", "10.00", "DEBIT"))
	require.Equal(t, http.StatusConflict, recorder.Code)

	var response handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "409 CONFLICT", response.Code)
}

func TestBalanceEndpoint(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "12.30", "CREDIT"))
	require.Equal(t, http.StatusCreated, recorder.Code)

	req := httptest.NewRequest(http.MethodGet, "/balance?userId=1", nil)
	getRecorder := httptest.NewRecorder()
	router.ServeHTTP(getRecorder, req)
	require.Equal(t, http.StatusOK, getRecorder.Code)

	var response handlers.BalanceResponse
	require.NoError(t, json.Unmarshal(getRecorder.Body.Bytes(), &response))
	assert.Equal(t, "12.30", response.Balance)
	assert.Equal(t, "USD", response.Currency)

	req = httptest.NewRequest(http.MethodGet, "/balance", nil)
	getRecorder = httptest.NewRecorder()
	router.ServeHTTP(getRecorder, req)
	assert.Equal(t, http.StatusBadRequest, getRecorder.Code)
}

func TestEventsEndpointListsHistoryInOrder(t *testing.T) {
	router := newTestRouter()

	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPut, "/load", loadBody("1", "m1", "10.00", "CREDIT")).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPut, "/authorization", authBody("1", "m2", "99.00", "DEBIT")).Code)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var events []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "LOAD", events[0]["kind"])
	assert.Equal(t, "AUTHORIZATION", events[1]["kind"])
	assert.Equal(t, "DECLINED", events[1]["outcome"])
}

func TestPing(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response handlers.PingResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotEmpty(t, response.ServerTime)
}
