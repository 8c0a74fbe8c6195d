package backtest

import (
	"github.com/gamma-omg/stock-analysis/internal/indicator"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Result struct {
	Symbol           string
	InitialCapital   decimal.Decimal
	FinalCapital     decimal.Decimal
	TotalReturnPct   float64
	Trades           []market.Trade
	EquityCurve      []decimal.Decimal
	TotalTrades      int
	ProfitableTrades int
	AccuracyPct      float64
}

// Run simulates trading the frame's signals from initialCapital. An open
// position is liquidated at the last valid close to compute the final capital;
// that liquidation is not recorded as a trade.
func Run(f *indicator.Frame, initialCapital decimal.Decimal) (*Result, error) {
	r, err := ReplaySignals(f, initialCapital)
	if err != nil {
		return nil, err
	}

	final := r.Cash
	if r.Long() {
		final = final.Add(r.Shares.Mul(r.LastPrice))
	}

	total, profitable, accuracy := PairTrades(r.Trades)
	return &Result{
		Symbol:           f.Series.Symbol,
		InitialCapital:   initialCapital,
		FinalCapital:     final,
		TotalReturnPct:   ReturnPct(initialCapital, final),
		Trades:           r.Trades,
		EquityCurve:      r.Equity,
		TotalTrades:      total,
		ProfitableTrades: profitable,
		AccuracyPct:      accuracy,
	}, nil
}

// ReturnPct is (final-initial)/initial in percent, 0 for a non-positive base.
func ReturnPct(initial, final decimal.Decimal) float64 {
	if !initial.IsPositive() {
		return 0
	}
	pct, _ := final.Sub(initial).Div(initial).Mul(hundred).Float64()
	return pct
}
