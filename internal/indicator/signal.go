package indicator

import (
	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/market"
)

type bar struct {
	close float64
	rsi   float64
	upper float64
	lower float64
}

type rule struct {
	act  Action
	cond func(b bar) bool
}

// rules are evaluated in order, the first match wins.
var rules = []rule{
	{ActBuy, func(b bar) bool { return b.rsi < 30 && b.close < b.lower }},
	{ActSell, func(b bar) bool { return b.rsi > 70 && b.close > b.upper }},
	{ActBuy, func(b bar) bool { return b.rsi < 30 }},
	{ActSell, func(b bar) bool { return b.rsi > 70 }},
	{ActBuy, func(b bar) bool { return b.close < b.lower }},
	{ActSell, func(b bar) bool { return b.close > b.upper }},
}

func decide(b bar) Action {
	for _, r := range rules {
		if r.cond(b) {
			return r.act
		}
	}
	return ActHold
}

// GenerateSignals computes RSI and Bollinger Bands and attaches exactly one
// action to every bar. Bars missing any of the inputs hold.
func GenerateSignals(f *Frame, cfg config.Signals) error {
	if err := RSI(f, cfg.RSIWindow); err != nil {
		return err
	}
	if err := BollingerBands(f, cfg.BBWindow, cfg.BBNumStd); err != nil {
		return err
	}

	closes := f.Series.Closes()
	f.Signals = make([]Action, len(closes))
	for i, c := range closes {
		r, up, lo := f.RSI[i], f.BBUpper[i], f.BBLower[i]
		if !r.Valid || !up.Valid || !lo.Valid {
			f.Signals[i] = ActHold
			continue
		}

		f.Signals[i] = decide(bar{close: c, rsi: r.Float, upper: up.Float, lower: lo.Float})
	}

	return nil
}

// Analyze builds a frame for s with signals and the auxiliary channels used
// by charts: a moving average over maWindow bars and daily volatility.
func Analyze(s market.Series, cfg config.Signals, maWindow int) (*Frame, error) {
	f, err := NewFrame(s)
	if err != nil {
		return nil, err
	}

	if err := GenerateSignals(f, cfg); err != nil {
		return nil, err
	}
	if err := MovingAverage(f, maWindow); err != nil {
		return nil, err
	}
	if err := Volatility(f); err != nil {
		return nil, err
	}

	return f, nil
}
