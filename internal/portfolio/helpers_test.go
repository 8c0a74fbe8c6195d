package portfolio

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 3, 1, 14, 30, 0, 123456789, time.UTC)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPortfolio(t *testing.T, capital float64) *Portfolio {
	t.Helper()

	p, err := New("test", dec(capital))
	require.NoError(t, err)
	return p
}
