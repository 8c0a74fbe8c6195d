package alpaca

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAlpacaApi struct {
	getBars func(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

func (m *mockAlpacaApi) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	return m.getBars(symbol, req)
}

var (
	start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
)

func TestFetch(t *testing.T) {
	var gotSymbol string
	var gotReq marketdata.GetBarsRequest

	f := Fetcher{
		log:  slog.New(slog.DiscardHandler),
		feed: "iex",
		api: &mockAlpacaApi{
			getBars: func(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
				gotSymbol = symbol
				gotReq = req
				return []marketdata.Bar{
					{Timestamp: start.AddDate(0, 0, 1), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
					{Timestamp: start.AddDate(0, 0, 2), Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 200},
				}, nil
			},
		},
	}

	s, err := f.Fetch(context.Background(), "msft", start, end)
	require.NoError(t, err)

	assert.Equal(t, "MSFT", gotSymbol)
	assert.Equal(t, marketdata.OneDay, gotReq.TimeFrame)
	assert.Equal(t, start, gotReq.Start)
	assert.Equal(t, end, gotReq.End)
	assert.Equal(t, marketdata.Feed("iex"), gotReq.Feed)

	assert.Equal(t, "MSFT", s.Symbol)
	require.Len(t, s.Bars, 2)
	assert.Equal(t, start.AddDate(0, 0, 2), s.Bars[1].Time)
	assert.True(t, decimal.NewFromFloat(2.5).Equal(s.Bars[1].Close))
	assert.True(t, decimal.NewFromInt(200).Equal(s.Bars[1].Volume))
}

func TestFetch_errors(t *testing.T) {
	tbl := []struct {
		symbol  string
		history []marketdata.Bar
		apiErr  error
		target  error
	}{
		{symbol: "AAPL", history: nil, target: market.ErrNoData},
		{symbol: "", target: market.ErrInvalidInput},
		{symbol: "AAPL", apiErr: errors.New("forbidden")},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			f := Fetcher{
				log: slog.New(slog.DiscardHandler),
				api: &mockAlpacaApi{
					getBars: func(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
						return c.history, c.apiErr
					},
				},
			}

			_, err := f.Fetch(context.Background(), c.symbol, start, end)
			require.Error(t, err)
			if c.target != nil {
				assert.ErrorIs(t, err, c.target)
			}
		})
	}
}
