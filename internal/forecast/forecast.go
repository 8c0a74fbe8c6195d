package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/market"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	MinDegree = 1
	MaxDegree = 4

	MaxHorizon = 365
)

type Result struct {
	Fitted   []float64
	Forecast []float64
	Dates    []time.Time
	Upper    []float64
	Lower    []float64
}

// ClampDegree forces a requested degree into the range Trend accepts.
func ClampDegree(degree int) int {
	return max(MinDegree, min(degree, MaxDegree))
}

// Trend fits a polynomial of the given degree to the closes against the bar
// index and projects it horizon bars ahead, one calendar day per step. The
// band at step k is last close * stdev(daily pct change) * sqrt(k).
func Trend(s market.Series, horizon, degree int) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if horizon < 1 || horizon > MaxHorizon {
		return nil, fmt.Errorf("%w: forecast horizon must be in [1, %d], got %d", market.ErrInvalidInput, MaxHorizon, horizon)
	}
	if degree < MinDegree || degree > MaxDegree {
		return nil, fmt.Errorf("%w: degree must be in [%d, %d], got %d", market.ErrInvalidInput, MinDegree, MaxDegree, degree)
	}

	closes := s.Closes()
	n := len(closes)

	// a polynomial through n points needs at most n-1 degrees
	deg := min(degree, n-1)

	coef, err := fit(closes, deg)
	if err != nil {
		return nil, fmt.Errorf("failed to fit %s trend: %w", s.Symbol, err)
	}

	res := &Result{
		Fitted:   make([]float64, n),
		Forecast: make([]float64, horizon),
		Dates:    make([]time.Time, horizon),
		Upper:    make([]float64, horizon),
		Lower:    make([]float64, horizon),
	}

	for i := range n {
		res.Fitted[i] = eval(coef, float64(i)/float64(n))
	}

	last := s.Bars[n-1]
	lastClose := closes[n-1]
	vol := volatility(closes)

	for k := range horizon {
		y := eval(coef, float64(n+k)/float64(n))
		band := lastClose * vol * math.Sqrt(float64(k+1))

		res.Forecast[k] = y
		res.Dates[k] = last.Time.AddDate(0, 0, k+1)
		res.Upper[k] = y + band
		res.Lower[k] = y - band
	}

	return res, nil
}

// fit solves the least squares problem for coefficients of 1, x, ..., x^deg
// where x is the bar index scaled by the series length.
func fit(y []float64, deg int) ([]float64, error) {
	n := len(y)
	a := mat.NewDense(n, deg+1, nil)
	for i := range n {
		x := float64(i) / float64(n)
		v := 1.0
		for j := 0; j <= deg; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, mat.NewVecDense(n, y)); err != nil {
		return nil, err
	}

	coef := make([]float64, deg+1)
	for j := range coef {
		coef[j] = beta.AtVec(j)
	}
	return coef, nil
}

func eval(coef []float64, x float64) float64 {
	y := 0.0
	for j := len(coef) - 1; j >= 0; j-- {
		y = y*x + coef[j]
	}
	return y
}

// volatility is the sample stdev of bar-over-bar pct changes. Changes off a
// zero close are skipped.
func volatility(closes []float64) float64 {
	var changes []float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		changes = append(changes, closes[i]/closes[i-1]-1)
	}

	if len(changes) < 2 {
		return 0
	}
	return stat.StdDev(changes, nil)
}
