package portfolio

import (
	"fmt"

	"github.com/gamma-omg/stock-analysis/internal/backtest"
	"github.com/gamma-omg/stock-analysis/internal/indicator"
	"github.com/shopspring/decimal"
)

func DefaultName(symbol string) string {
	return symbol + "_Portfolio"
}

// CreateFromSignals builds a fresh portfolio named after the symbol and
// applies the trades a backtest of the same frame would make.
func CreateFromSignals(f *indicator.Frame, symbol string, initialCapital decimal.Decimal) (*Portfolio, error) {
	p, err := New(DefaultName(symbol), initialCapital)
	if err != nil {
		return nil, err
	}

	replay, err := backtest.ReplaySignals(f, initialCapital)
	if err != nil {
		return nil, err
	}

	for _, t := range replay.Trades {
		if _, err := p.AddTrade(symbol, t.Side, t.Shares, t.Price, t.Time); err != nil {
			return nil, fmt.Errorf("failed to apply %s trade at %s: %w", t.Side, t.Time, err)
		}
	}

	return p, nil
}
