package analysis

import (
	"maps"
	"sync"

	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
)

// priceBook collects the latest close per symbol from concurrent fetches.
type priceBook struct {
	closes map[string]decimal.Decimal
	mu     sync.Mutex
}

func newPriceBook() *priceBook {
	return &priceBook{
		closes: make(map[string]decimal.Decimal),
	}
}

func (pb *priceBook) UpdatePrice(symbol string, bar market.Bar) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	pb.closes[symbol] = bar.Close
}

// Closes returns a copy of the last close per known symbol.
func (pb *priceBook) Closes() map[string]decimal.Decimal {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	return maps.Clone(pb.closes)
}
