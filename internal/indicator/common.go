package indicator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// rolling applies fn to every full trailing window of data. Bars before the
// first full window stay undefined.
func rolling(data []float64, window int, fn func(w []float64) Value) []Value {
	out := make([]Value, len(data))
	for i := window - 1; i < len(data); i++ {
		out[i] = fn(data[i-window+1 : i+1])
	}
	return out
}

func rollingMean(data []float64, window int) []Value {
	return rolling(data, window, func(w []float64) Value {
		return Some(stat.Mean(w, nil))
	})
}

func meanAndPopStd(w []float64) (float64, float64) {
	mean, variance := stat.PopMeanVariance(w, nil)
	return mean, math.Sqrt(variance)
}
