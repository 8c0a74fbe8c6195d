package portfolio

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/backtest"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Position struct {
	Shares   decimal.Decimal
	AvgPrice decimal.Decimal
}

// Portfolio is a multi-symbol cash and position ledger. Trades are applied
// without checking available cash or held shares, so cash may go negative;
// every mutation is appended to Trades and can be audited from there.
type Portfolio struct {
	Name           string
	InitialCapital decimal.Decimal
	Cash           decimal.Decimal
	Positions      map[string]Position
	Trades         []market.Trade
}

func New(name string, initialCapital decimal.Decimal) (*Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: portfolio name must not be empty", market.ErrInvalidInput)
	}
	if !initialCapital.IsPositive() {
		return nil, fmt.Errorf("%w: initial capital must be positive, got %s", market.ErrInvalidInput, initialCapital)
	}

	return &Portfolio{
		Name:           name,
		InitialCapital: initialCapital,
		Cash:           initialCapital,
		Positions:      make(map[string]Position),
	}, nil
}

// AddTrade records a trade and applies it to cash and positions. Buys update
// the weighted average cost; a sell that leaves no shares removes the position.
// A zero ts stamps the trade with the current time.
func (p *Portfolio) AddTrade(symbol string, side market.Side, shares, price decimal.Decimal, ts time.Time) (market.Trade, error) {
	if symbol == "" {
		return market.Trade{}, fmt.Errorf("%w: trade symbol must not be empty", market.ErrInvalidInput)
	}
	if side != market.SideBuy && side != market.SideSell {
		return market.Trade{}, fmt.Errorf("%w: unknown trade action %q", market.ErrInvalidInput, side)
	}
	if !shares.IsPositive() {
		return market.Trade{}, fmt.Errorf("%w: shares must be positive, got %s", market.ErrInvalidInput, shares)
	}
	if !price.IsPositive() {
		return market.Trade{}, fmt.Errorf("%w: price must be positive, got %s", market.ErrInvalidInput, price)
	}
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	t := market.Trade{
		Time:   ts,
		Symbol: symbol,
		Side:   side,
		Shares: shares,
		Price:  price,
	}

	if p.Positions == nil {
		p.Positions = make(map[string]Position)
	}

	pos, held := p.Positions[symbol]
	switch side {
	case market.SideBuy:
		p.Cash = p.Cash.Sub(t.Value())
		if held {
			total := pos.Shares.Add(shares)
			cost := pos.Shares.Mul(pos.AvgPrice).Add(t.Value())
			p.Positions[symbol] = Position{Shares: total, AvgPrice: cost.Div(total)}
		} else {
			p.Positions[symbol] = Position{Shares: shares, AvgPrice: price}
		}
	case market.SideSell:
		p.Cash = p.Cash.Add(t.Value())
		if held {
			pos.Shares = pos.Shares.Sub(shares)
			if pos.Shares.LessThanOrEqual(decimal.Zero) {
				delete(p.Positions, symbol)
			} else {
				p.Positions[symbol] = pos
			}
		}
	}

	p.Trades = append(p.Trades, t)
	return t, nil
}

// Value is cash plus held shares marked at the given prices. A held symbol
// without a price contributes nothing.
func (p *Portfolio) Value(prices map[string]decimal.Decimal) decimal.Decimal {
	total := p.Cash
	for symbol, pos := range p.Positions {
		if price, ok := prices[symbol]; ok {
			total = total.Add(pos.Shares.Mul(price))
		}
	}
	return total
}

type Metrics struct {
	InitialCapital   decimal.Decimal
	CurrentValue     decimal.Decimal
	TotalReturnPct   float64
	TotalTrades      int
	ProfitableTrades int
	AccuracyPct      float64
	Cash             decimal.Decimal
	Positions        map[string]Position
}

// Metrics pairs buys and sells across all symbols the same way a backtest does.
func (p *Portfolio) Metrics(prices map[string]decimal.Decimal) Metrics {
	value := p.Value(prices)
	total, profitable, accuracy := backtest.PairTrades(p.Trades)

	return Metrics{
		InitialCapital:   p.InitialCapital,
		CurrentValue:     value,
		TotalReturnPct:   backtest.ReturnPct(p.InitialCapital, value),
		TotalTrades:      total,
		ProfitableTrades: profitable,
		AccuracyPct:      accuracy,
		Cash:             p.Cash,
		Positions:        maps.Clone(p.Positions),
	}
}

type Holding struct {
	Symbol           string
	Shares           decimal.Decimal
	AvgPrice         decimal.Decimal
	CurrentPrice     decimal.Decimal
	MarketValue      decimal.Decimal
	UnrealizedPnL    decimal.Decimal
	UnrealizedPnLPct float64
}

// PositionSummary values each held symbol, sorted by symbol. Missing prices
// count as zero.
func (p *Portfolio) PositionSummary(prices map[string]decimal.Decimal) []Holding {
	symbols := slices.Sorted(maps.Keys(p.Positions))

	summary := make([]Holding, 0, len(symbols))
	for _, symbol := range symbols {
		pos := p.Positions[symbol]
		price := prices[symbol]
		cost := pos.Shares.Mul(pos.AvgPrice)
		value := pos.Shares.Mul(price)
		pnl := value.Sub(cost)

		pct := 0.0
		if pos.AvgPrice.IsPositive() && !cost.IsZero() {
			pct, _ = pnl.Div(cost).Mul(hundred).Float64()
		}

		summary = append(summary, Holding{
			Symbol:           symbol,
			Shares:           pos.Shares,
			AvgPrice:         pos.AvgPrice,
			CurrentPrice:     price,
			MarketValue:      value,
			UnrealizedPnL:    pnl,
			UnrealizedPnLPct: pct,
		})
	}

	return summary
}

func (p *Portfolio) Symbols() []string {
	return slices.Sorted(maps.Keys(p.Positions))
}
