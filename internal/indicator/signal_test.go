package indicator

import (
	"fmt"
	"testing"

	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tbl := []struct {
		in  bar
		act Action
	}{
		{in: bar{close: 90, rsi: 25, upper: 110, lower: 95}, act: ActBuy},
		{in: bar{close: 120, rsi: 75, upper: 110, lower: 95}, act: ActSell},
		{in: bar{close: 120, rsi: 25, upper: 110, lower: 95}, act: ActBuy},
		{in: bar{close: 90, rsi: 75, upper: 110, lower: 95}, act: ActSell},
		{in: bar{close: 90, rsi: 50, upper: 110, lower: 95}, act: ActBuy},
		{in: bar{close: 120, rsi: 50, upper: 110, lower: 95}, act: ActSell},
		{in: bar{close: 100, rsi: 50, upper: 110, lower: 95}, act: ActHold},
		{in: bar{close: 100, rsi: 30, upper: 110, lower: 95}, act: ActHold},
		{in: bar{close: 100, rsi: 70, upper: 110, lower: 95}, act: ActHold},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.act, decide(c.in))
		})
	}
}

func TestGenerateSignals_buyOnCrash(t *testing.T) {
	closes := make([]float64, 0, 22)
	for i := 0; i < 21; i++ {
		closes = append(closes, 100+float64(i%2))
	}
	closes = append(closes, 80)

	f := frameOf(closes...)
	require.NoError(t, GenerateSignals(f, defaultSignals))
	require.Len(t, f.Signals, len(closes))

	last := len(closes) - 1
	assert.InDelta(t, 18.1818, f.RSI[last].Float, 1e-3)
	assert.InDelta(t, 90.4728, f.BBLower[last].Float, 1e-3)
	assert.Equal(t, ActBuy, f.Signals[last])

	for i := 0; i < 19; i++ {
		assert.Equal(t, ActHold, f.Signals[i], "bar %d lacks bands", i)
	}
}

func TestGenerateSignals_holdWhenNotEnoughData(t *testing.T) {
	f := frameOf(1, 2, 3, 4, 5)
	require.NoError(t, GenerateSignals(f, defaultSignals))

	assert.Equal(t, []Action{ActHold, ActHold, ActHold, ActHold, ActHold}, f.Signals)
}

func TestGenerateSignals_flatMarketHolds(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50
	}

	f := frameOf(closes...)
	require.NoError(t, GenerateSignals(f, defaultSignals))

	for i, s := range f.Signals {
		assert.Equal(t, ActHold, s, "bar %d", i)
	}
}

func TestGenerateSignals_invalidInput(t *testing.T) {
	err := GenerateSignals(frameOf(), defaultSignals)
	require.ErrorIs(t, err, market.ErrInvalidInput)

	_, err = Analyze(seriesOf(), defaultSignals, 10)
	require.ErrorIs(t, err, market.ErrInvalidInput)
}

func TestAnalyze(t *testing.T) {
	f, err := Analyze(seriesOf(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12), defaultSignals, 10)
	require.NoError(t, err)

	assert.Len(t, f.Signals, 12)
	assert.Len(t, f.MA, 12)
	assert.Len(t, f.Volatility, 12)
	assert.InDelta(t, 5.5, f.MA[9].Float, 1e-12)
	assert.Equal(t, "Hold", f.Signals[0].String())
}
