package backtest

import (
	"fmt"

	"github.com/gamma-omg/stock-analysis/internal/indicator"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
)

const sharePrecision = 16

var shareStep = decimal.New(1, -sharePrecision)

// Replay is the outcome of walking a signal sequence with a single binary
// position: either flat with all capital in cash or long with all of it in shares.
type Replay struct {
	Trades    []market.Trade
	Equity    []decimal.Decimal
	Cash      decimal.Decimal
	Shares    decimal.Decimal
	LastPrice decimal.Decimal
}

func (r *Replay) Long() bool {
	return r.Shares.IsPositive()
}

// ReplaySignals applies the flat/long policy to every bar of the frame. Buys
// put all cash into shares at the bar close, leaving only the remainder below
// share precision as cash, and sells turn all shares back into cash. Bars
// without a positive close produce no trade and carry the equity forward at
// the last valid price.
func ReplaySignals(f *indicator.Frame, capital decimal.Decimal) (*Replay, error) {
	if err := checkFrame(f); err != nil {
		return nil, err
	}
	if !capital.IsPositive() {
		return nil, fmt.Errorf("%w: initial capital must be positive, got %s", market.ErrInvalidInput, capital)
	}

	r := &Replay{
		Cash:   capital,
		Equity: make([]decimal.Decimal, 0, f.Len()),
	}

	for i, bar := range f.Series.Bars {
		price := bar.Close
		if price.IsPositive() {
			r.LastPrice = price
			r.step(f.Series.Symbol, bar, f.Signals[i])
		}

		r.Equity = append(r.Equity, r.Cash.Add(r.Shares.Mul(r.LastPrice)))
	}

	return r, nil
}

func (r *Replay) step(symbol string, bar market.Bar, act indicator.Action) {
	switch {
	case act == indicator.ActBuy && !r.Long() && r.Cash.GreaterThan(bar.Close):
		shares := allIn(r.Cash, bar.Close)
		r.Trades = append(r.Trades, market.Trade{
			Time:   bar.Time,
			Symbol: symbol,
			Side:   market.SideBuy,
			Shares: shares,
			Price:  bar.Close,
		})
		r.Shares = shares
		r.Cash = r.Cash.Sub(shares.Mul(bar.Close))
	case act == indicator.ActSell && r.Long():
		r.Trades = append(r.Trades, market.Trade{
			Time:   bar.Time,
			Symbol: symbol,
			Side:   market.SideSell,
			Shares: r.Shares,
			Price:  bar.Close,
		})
		r.Cash = r.Cash.Add(r.Shares.Mul(bar.Close))
		r.Shares = decimal.Zero
	}
}

// allIn is the largest share count at sharePrecision decimals whose cost does
// not exceed cash.
func allIn(cash, price decimal.Decimal) decimal.Decimal {
	shares := cash.DivRound(price, sharePrecision+2).Truncate(sharePrecision)
	for shares.Mul(price).GreaterThan(cash) {
		shares = shares.Sub(shareStep)
	}
	return shares
}

func checkFrame(f *indicator.Frame) error {
	if f == nil {
		return fmt.Errorf("%w: missing indicator frame", market.ErrInvalidInput)
	}
	if err := f.Series.Validate(); err != nil {
		return err
	}
	if len(f.Signals) != f.Len() {
		return fmt.Errorf("%w: signals are not generated for %q", market.ErrInvalidInput, f.Series.Symbol)
	}
	return nil
}
