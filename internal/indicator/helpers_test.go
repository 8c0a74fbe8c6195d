package indicator

import (
	"time"

	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
)

var defaultSignals = config.Signals{RSIWindow: 14, BBWindow: 20, BBNumStd: 2}

func seriesOf(closes ...float64) market.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:  start.AddDate(0, 0, i),
			Close: decimal.NewFromFloat(c),
		}
	}
	return market.NewSeries("TEST", bars)
}

func frameOf(closes ...float64) *Frame {
	return &Frame{Series: seriesOf(closes...)}
}

func floats(vals []Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		if v.Valid {
			out[i] = v.Float
		}
	}
	return out
}
