package forecast

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

var day0 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

func seriesOf(closes ...float64) market.Series {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{Time: day0.AddDate(0, 0, i), Close: decimal.NewFromFloat(c)}
	}
	return market.NewSeries("TEST", bars)
}

func TestTrend_linearSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50 + 2*float64(i)
	}

	res, err := Trend(seriesOf(closes...), 5, 1)
	require.NoError(t, err)

	for i, c := range closes {
		assert.InDelta(t, c, res.Fitted[i], 1e-8, "fitted %d", i)
	}
	for k := range 5 {
		assert.InDelta(t, 50+2*float64(30+k), res.Forecast[k], 1e-8, "forecast %d", k)
	}
}

func TestTrend_quadraticSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		x := float64(i)
		closes[i] = 100 + 0.5*x - 0.01*x*x
	}

	for _, degree := range []int{2, 3, 4} {
		t.Run(fmt.Sprintf("case_%d", degree), func(t *testing.T) {
			res, err := Trend(seriesOf(closes...), 3, degree)
			require.NoError(t, err)

			for k := range 3 {
				x := float64(40 + k)
				assert.InDelta(t, 100+0.5*x-0.01*x*x, res.Forecast[k], 1e-6)
			}
		})
	}
}

func TestTrend_datesAndBands(t *testing.T) {
	closes := []float64{100, 102, 101, 105, 104, 108}
	res, err := Trend(seriesOf(closes...), 4, 2)
	require.NoError(t, err)

	var changes []float64
	for i := 1; i < len(closes); i++ {
		changes = append(changes, closes[i]/closes[i-1]-1)
	}
	vol := stat.StdDev(changes, nil)

	require.Len(t, res.Dates, 4)
	for k := range 4 {
		assert.Equal(t, day0.AddDate(0, 0, 5+k+1), res.Dates[k])

		band := 108 * vol * math.Sqrt(float64(k+1))
		assert.InDelta(t, res.Forecast[k]+band, res.Upper[k], 1e-9)
		assert.InDelta(t, res.Forecast[k]-band, res.Lower[k], 1e-9)
	}
}

func TestTrend_shortSeries(t *testing.T) {
	res, err := Trend(seriesOf(42), 3, 4)
	require.NoError(t, err)

	for k := range 3 {
		assert.InDelta(t, 42.0, res.Forecast[k], 1e-9)
		assert.Equal(t, res.Forecast[k], res.Upper[k])
		assert.Equal(t, res.Forecast[k], res.Lower[k])
	}

	res, err = Trend(seriesOf(10, 20), 1, 3)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, res.Forecast[0], 1e-9)
}

func TestTrend_invalidInput(t *testing.T) {
	tbl := []struct {
		series  market.Series
		horizon int
		degree  int
	}{
		{series: market.NewSeries("X", nil), horizon: 5, degree: 2},
		{series: seriesOf(1, 2, 3), horizon: 0, degree: 2},
		{series: seriesOf(1, 2, 3), horizon: MaxHorizon + 1, degree: 2},
		{series: seriesOf(1, 2, 3), horizon: 100000, degree: 2},
		{series: seriesOf(1, 2, 3), horizon: 5, degree: 0},
		{series: seriesOf(1, 2, 3), horizon: 5, degree: 5},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			_, err := Trend(c.series, c.horizon, c.degree)
			assert.ErrorIs(t, err, market.ErrInvalidInput)
		})
	}
}

func TestTrend_maxHorizon(t *testing.T) {
	res, err := Trend(seriesOf(1, 2, 3, 4), MaxHorizon, 1)
	require.NoError(t, err)
	assert.Len(t, res.Forecast, MaxHorizon)
	assert.Equal(t, day0.AddDate(0, 0, 3+MaxHorizon), res.Dates[MaxHorizon-1])
}

func TestClampDegree(t *testing.T) {
	tbl := []struct {
		in  int
		out int
	}{
		{in: -3, out: 1},
		{in: 0, out: 1},
		{in: 2, out: 2},
		{in: 4, out: 4},
		{in: 9, out: 4},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.out, ClampDegree(c.in))
		})
	}
}
