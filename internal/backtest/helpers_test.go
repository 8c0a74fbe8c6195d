package backtest

import (
	"testing"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/indicator"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func frameWithSignals(t *testing.T, closes []float64, signals []indicator.Action) *indicator.Frame {
	t.Helper()
	require.Len(t, signals, len(closes))

	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:  day0.AddDate(0, 0, i),
			Close: decimal.NewFromFloat(c),
		}
	}

	return &indicator.Frame{
		Series:  market.NewSeries("TEST", bars),
		Signals: signals,
	}
}

func holds(n int) []indicator.Action {
	return make([]indicator.Action, n)
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
