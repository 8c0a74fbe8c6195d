package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBollingerBands(t *testing.T) {
	f := frameOf(1, 2, 3, 4, 5, 6)
	require.NoError(t, BollingerBands(f, 5, 2))

	for i := 0; i < 4; i++ {
		assert.False(t, f.BBMid[i].Valid)
	}

	assert.InDelta(t, 3.0, f.BBMid[4].Float, 1e-12)
	assert.InDelta(t, 3+2*math.Sqrt2, f.BBUpper[4].Float, 1e-12)
	assert.InDelta(t, 3-2*math.Sqrt2, f.BBLower[4].Float, 1e-12)
	assert.InDelta(t, 4.0, f.BBMid[5].Float, 1e-12)
}

func TestBollingerBands_symmetric(t *testing.T) {
	closes := []float64{10, 12, 11, 15, 14, 13, 18, 17, 16, 20, 19, 22}
	numStd := 2.5
	f := frameOf(closes...)
	require.NoError(t, BollingerBands(f, 4, numStd))

	for i := 3; i < len(closes); i++ {
		_, std := meanAndPopStd(closes[i-3 : i+1])
		up, mid, lo := f.BBUpper[i].Float, f.BBMid[i].Float, f.BBLower[i].Float

		assert.LessOrEqual(t, lo, mid)
		assert.LessOrEqual(t, mid, up)
		assert.InDelta(t, numStd*std, up-mid, 1e-9)
		assert.InDelta(t, numStd*std, mid-lo, 1e-9)
	}
}

func TestBollingerBands_flatSeries(t *testing.T) {
	f := frameOf(7, 7, 7)
	require.NoError(t, BollingerBands(f, 3, 2))

	assert.Equal(t, 7.0, f.BBUpper[2].Float)
	assert.Equal(t, 7.0, f.BBMid[2].Float)
	assert.Equal(t, 7.0, f.BBLower[2].Float)
}
