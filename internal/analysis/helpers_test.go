package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/gamma-omg/stock-analysis/internal/portfolio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fetchCall struct {
	symbol     string
	start, end time.Time
}

type mockFetcher struct {
	data  map[string][]float64
	calls []fetchCall
	mu    sync.Mutex
}

func (m *mockFetcher) Fetch(_ context.Context, symbol string, start, end time.Time) (market.Series, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fetchCall{symbol: symbol, start: start, end: end})
	m.mu.Unlock()

	closes, ok := m.data[symbol]
	if !ok {
		return market.Series{}, fmt.Errorf("%w: no data found for %s", market.ErrNoData, symbol)
	}
	return seriesOf(symbol, closes), nil
}

func seriesOf(symbol string, closes []float64) market.Series {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:   day0.AddDate(0, 0, i),
			Open:   decimal.NewFromFloat(c),
			High:   decimal.NewFromFloat(c),
			Low:    decimal.NewFromFloat(c),
			Close:  decimal.NewFromFloat(c),
			Volume: decimal.NewFromInt(1000),
		}
	}
	return market.NewSeries(symbol, bars)
}

// crashAndRecover drifts sideways, crashes below the lower band and then
// rallies hard enough to push RSI above 70.
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

func steadyDecline() []float64 {
	var closes []float64
	for i := range 40 {
		closes = append(closes, 200-float64(i))
	}
	return closes
}

func testConfig() config.Analysis {
	return config.Analysis{
		Signals:        config.Signals{RSIWindow: 14, BBWindow: 20, BBNumStd: 2},
		InitialCapital: 10000,
		MAWindow:       10,
		RecentSignals:  10,
		BatchLimit:     100,
		ForecastDays:   365,
	}
}

func newTestService(t *testing.T, f *mockFetcher) *Service {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	ledger := portfolio.NewLedger(log, portfolio.NewFileStore(t.TempDir()))
	s := NewService(log, testConfig(), 4, f, ledger, NewMetrics(prometheus.NewRegistry()))
	s.now = func() time.Time { return day0.AddDate(0, 3, 0) }
	return s
}
