package portfolio

import (
	"testing"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_roundTrip(t *testing.T) {
	p := newPortfolio(t, 10000)
	_, err := p.AddTrade("AAPL", market.SideBuy, dec(10), dec(100.25), day0)
	require.NoError(t, err)
	_, err = p.AddTrade("AAPL", market.SideBuy, dec(3.5), dec(99.1), day0.Add(26*time.Hour))
	require.NoError(t, err)
	_, err = p.AddTrade("MSFT", market.SideBuy, dec(1), dec(410), day0.In(time.FixedZone("EST", -5*3600)))
	require.NoError(t, err)
	_, err = p.AddTrade("AAPL", market.SideSell, dec(2), dec(120), day0.AddDate(0, 1, 0))
	require.NoError(t, err)

	data, err := Marshal(p)
	require.NoError(t, err)

	restored, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, p.Name, restored.Name)
	assert.True(t, p.InitialCapital.Equal(restored.InitialCapital))
	assert.True(t, p.Cash.Equal(restored.Cash))
	require.Len(t, restored.Positions, len(p.Positions))
	for symbol, pos := range p.Positions {
		assert.True(t, pos.Shares.Equal(restored.Positions[symbol].Shares), symbol)
		assert.True(t, pos.AvgPrice.Equal(restored.Positions[symbol].AvgPrice), symbol)
	}
	require.Len(t, restored.Trades, len(p.Trades))
	for i, tr := range p.Trades {
		assert.True(t, tr.Time.Equal(restored.Trades[i].Time))
		assert.Equal(t, tr.Time.Format(time.RFC3339Nano), restored.Trades[i].Time.Format(time.RFC3339Nano))
		assert.Equal(t, tr.Symbol, restored.Trades[i].Symbol)
		assert.Equal(t, tr.Side, restored.Trades[i].Side)
		assert.True(t, tr.Shares.Equal(restored.Trades[i].Shares))
		assert.True(t, tr.Price.Equal(restored.Trades[i].Price))
	}

	again, err := Marshal(restored)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestMarshal_document(t *testing.T) {
	p := newPortfolio(t, 1000)
	_, err := p.AddTrade("AAPL", market.SideBuy, dec(2), dec(150), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	data, err := Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `
{
	"name": "test",
	"initial_capital": "1000",
	"cash": "700",
	"positions": {
		"AAPL": {"shares": "2", "avg_price": "150"}
	},
	"trades": [{
		"date": "2024-01-02T00:00:00Z",
		"ticker": "AAPL",
		"action": "buy",
		"shares": "2",
		"price": "150",
		"value": "300"
	}]
}`, string(data))
}

func TestUnmarshal_legacyDocument(t *testing.T) {
	p, err := Unmarshal([]byte(`
{
	"name": "AAPL_Portfolio",
	"initial_capital": 10000,
	"cash": 0.5,
	"positions": {"AAPL": {"shares": 52.5, "avg_price": 190.47}},
	"trades": [{
		"date": "2024-01-02 00:00:00",
		"ticker": "AAPL",
		"action": "Buy",
		"shares": 52.5,
		"price": 190.47,
		"value": 9999.675
	}]
}`))
	require.NoError(t, err)

	assert.Equal(t, "AAPL_Portfolio", p.Name)
	assert.True(t, dec(0.5).Equal(p.Cash))
	require.Len(t, p.Trades, 1)
	assert.Equal(t, market.SideBuy, p.Trades[0].Side)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), p.Trades[0].Time)
}

func TestUnmarshal_invalid(t *testing.T) {
	_, err := Unmarshal([]byte(`{"name": "x", "trades": [{"date": "yesterday", "action": "buy"}]}`))
	assert.ErrorIs(t, err, market.ErrInvalidInput)

	_, err = Unmarshal([]byte(`{"name": "x", "trades": [{"date": "2024-01-02", "action": "short"}]}`))
	assert.ErrorIs(t, err, market.ErrInvalidInput)

	_, err = Unmarshal([]byte(`{"cash": "1"}`))
	assert.ErrorIs(t, err, market.ErrInvalidInput)

	_, err = Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}
