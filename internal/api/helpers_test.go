package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/analysis"
	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/gamma-omg/stock-analysis/internal/portfolio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type mockFetcher struct {
	data map[string][]float64
}

func (m *mockFetcher) Fetch(_ context.Context, symbol string, _, _ time.Time) (market.Series, error) {
	closes, ok := m.data[symbol]
	if !ok {
		return market.Series{}, fmt.Errorf("%w: no data found for %s", market.ErrNoData, symbol)
	}

	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:   day0.AddDate(0, 0, i),
			Open:   decimal.NewFromFloat(c),
			High:   decimal.NewFromFloat(c),
			Low:    decimal.NewFromFloat(c),
			Close:  decimal.NewFromFloat(c),
			Volume: decimal.NewFromInt(500),
		}
	}
	return market.NewSeries(symbol, bars), nil
}

func crashAndRecover() []float64 {
	var closes []float64
	for i := range 21 {
		closes = append(closes, 100+float64(i%2))
	}
	closes = append(closes, 80)
	for i := 1; i <= 15; i++ {
		closes = append(closes, 80+float64(i)*3)
	}
	return closes
}

type testServer struct {
	router http.Handler
	ledger *portfolio.Ledger
}

func newTestServer(t *testing.T, data map[string][]float64) *testServer {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	reg := prometheus.NewRegistry()
	ledger := portfolio.NewLedger(log, portfolio.NewFileStore(t.TempDir()))
	cfg := config.Analysis{
		Signals:        config.Signals{RSIWindow: 14, BBWindow: 20, BBNumStd: 2},
		InitialCapital: 10000,
		MAWindow:       10,
		RecentSignals:  10,
		BatchLimit:     100,
		ForecastDays:   365,
	}

	svc := analysis.NewService(log, cfg, 4, &mockFetcher{data: data}, ledger, analysis.NewMetrics(reg))
	h := NewHandler(log, svc, cfg.InitialCapital)
	server := config.Server{Timeout: 5 * time.Second, AllowOrigins: "*"}

	return &testServer{router: NewRouter(log, h, server, reg), ledger: ledger}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
