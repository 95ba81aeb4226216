package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func newTestServer(t *testing.T, seed []journal.Trade) (*gin.Engine, *journal.SQLiteStore) {
	t.Helper()

	store, err := journal.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for _, tr := range seed {
		require.NoError(t, store.Add(context.Background(), tr))
	}

	return NewServer(store, config.Default(), nil).Router(), store
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealth(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t, nil)
	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestListTradesDefaultOrder(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t, journal.DemoTrades())
	w := do(t, r, http.MethodGet, "/api/v1/trades", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decode[struct {
		Sort   string      `json:"sort"`
		Order  string      `json:"order"`
		Trades []TradeView `json:"trades"`
	}](t, w)

	assert.Equal(t, "date", env.Data.Sort)
	assert.Equal(t, "desc", env.Data.Order)
	require.Len(t, env.Data.Trades, 10)
	assert.Equal(t, "2023-10-28", env.Data.Trades[0].DateString())
	assert.InDelta(t, 515.0, env.Data.Trades[0].PnL, 1e-9)
}

func TestListTradesSortedByPnL(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t, journal.DemoTrades())
	w := do(t, r, http.MethodGet, "/api/v1/trades?sort=pnl&order=desc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decode[struct {
		Trades []TradeView `json:"trades"`
	}](t, w)
	require.Len(t, env.Data.Trades, 10)
	assert.InDelta(t, 1980.0, env.Data.Trades[0].PnL, 1e-9)
	assert.InDelta(t, -210.0, env.Data.Trades[9].PnL, 1e-9)
}

func TestListTradesBadQuery(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/trades?sort=leverage", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/trades?order=up", nil).Code)
}

func TestTradeLifecycle(t *testing.T) {
	t.Parallel()

	r, store := newTestServer(t, nil)

	fees := 1.0
	entry := journal.Entry{
		Date: "2024-01-02", Symbol: "btcusdt", Direction: "Long",
		EntryPrice: 100, ExitPrice: 110, Quantity: 2, Fees: &fees,
	}

	w := do(t, r, http.MethodPost, "/api/v1/trades", entry)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	createdTrade := decode[TradeView](t, w).Data
	assert.Equal(t, "BTCUSDT", createdTrade.Symbol)
	assert.InDelta(t, 19.0, createdTrade.PnL, 1e-9)

	w = do(t, r, http.MethodGet, "/api/v1/trades/"+createdTrade.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, createdTrade.ID, decode[TradeView](t, w).Data.ID)

	entry.Direction = "Short"
	w = do(t, r, http.MethodPut, "/api/v1/trades/"+createdTrade.ID, entry)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, -21.0, decode[TradeView](t, w).Data.PnL, 1e-9)

	stored, err := store.Get(context.Background(), createdTrade.ID)
	require.NoError(t, err)
	assert.Equal(t, journal.Short, stored.Direction)

	w = do(t, r, http.MethodDelete, "/api/v1/trades/"+createdTrade.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/trades/"+createdTrade.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodDelete, "/api/v1/trades/"+createdTrade.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTradeInvalid(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t, nil)

	w := do(t, r, http.MethodPost, "/api/v1/trades", journal.Entry{
		Date: "2024-01-02", Symbol: "BTCUSDT", Direction: "Long",
		EntryPrice: 100, ExitPrice: 110, Quantity: 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[any](t, w).Message, "quantity must be positive")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trades", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplaceMissingTrade(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t, nil)
	fees := 0.0
	w := do(t, r, http.MethodPut, "/api/v1/trades/nope", journal.Entry{
		Date: "2024-01-02", Symbol: "BTCUSDT", Direction: "Long",
		EntryPrice: 100, ExitPrice: 110, Quantity: 1, Fees: &fees,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStats(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t, journal.DemoTrades())

	w := do(t, r, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[analytics.Stats](t, w).Data
	assert.Equal(t, 10000.0, st.InitialBalance)
	assert.InDelta(t, 13918.0, st.CurrentBalance, 1e-6)
	assert.InDelta(t, 70.0, st.WinRate, 1e-9)
	assert.Len(t, st.EquityCurve, 11)

	w = do(t, r, http.MethodGet, "/api/v1/stats?initial_balance=5000&rebate_rate=0.5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st = decode[analytics.Stats](t, w).Data
	assert.InDelta(t, 8918.0, st.CurrentBalance, 1e-6)
	assert.InDelta(t, 41.0, st.TotalRebates, 1e-9)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/stats?initial_balance=-1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/v1/stats?rebate_rate=2", nil).Code)
}

func TestGetEquity(t *testing.T) {
	t.Parallel()

	r, _ := newTestServer(t, nil)

	w := do(t, r, http.MethodGet, "/api/v1/equity?initial_balance=1000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	curve := decode[[]analytics.EquityPoint](t, w).Data
	assert.Equal(t, []analytics.EquityPoint{{Date: analytics.StartLabel, Balance: 1000}}, curve)
}
