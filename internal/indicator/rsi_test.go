package indicator

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI(t *testing.T) {
	tbl := []struct {
		closes []float64
		window int
		rsi    []any
	}{
		{closes: []float64{10, 11, 12, 11}, window: 3, rsi: []any{nil, nil, nil, 200.0 / 3}},
		{closes: []float64{1, 2, 1, 2, 1}, window: 2, rsi: []any{nil, nil, 50.0, 50.0, 50.0}},
		{closes: []float64{1, 2, 3, 4}, window: 3, rsi: []any{nil, nil, nil, 100.0}},
		{closes: []float64{4, 3, 2, 1}, window: 3, rsi: []any{nil, nil, nil, 0.0}},
		{closes: []float64{5, 5, 5, 5, 5}, window: 2, rsi: []any{nil, nil, nil, nil, nil}},
		{closes: []float64{1, 2, 3}, window: 3, rsi: []any{nil, nil, nil}},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			f := frameOf(c.closes...)
			require.NoError(t, RSI(f, c.window))

			got := floats(f.RSI)
			require.Len(t, got, len(c.rsi))
			for j := range got {
				if c.rsi[j] == nil {
					assert.Nil(t, got[j], "bar %d", j)
					continue
				}
				assert.InDelta(t, c.rsi[j], got[j], 1e-9, "bar %d", j)
			}
		})
	}
}

func TestRSI_bounded(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i%7)
	}

	f := frameOf(closes...)
	require.NoError(t, RSI(f, 14))

	for i, v := range f.RSI {
		if i < 14 {
			assert.False(t, v.Valid)
			continue
		}
		require.True(t, v.Valid)
		assert.GreaterOrEqual(t, v.Float, 0.0)
		assert.LessOrEqual(t, v.Float, 100.0)
		assert.False(t, math.IsNaN(v.Float))
	}
}

func TestRSI_flatWindowAfterMovement(t *testing.T) {
	f := frameOf(1, 2, 2, 2, 2)
	require.NoError(t, RSI(f, 2))

	assert.True(t, f.RSI[2].Valid)
	assert.Equal(t, 100.0, f.RSI[2].Float)
	assert.False(t, f.RSI[3].Valid)
	assert.False(t, f.RSI[4].Valid)
}
