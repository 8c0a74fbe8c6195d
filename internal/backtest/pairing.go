package backtest

import "github.com/gamma-omg/stock-analysis/internal/market"

type RoundTrip struct {
	Buy  market.Trade
	Sell market.Trade
}

func (rt RoundTrip) Profitable() bool {
	return rt.Sell.Price.GreaterThan(rt.Buy.Price)
}

// Pair matches the i-th buy with the i-th sell in the order they were
// recorded, ignoring symbols. Unmatched trades on either side are dropped.
func Pair(trades []market.Trade) []RoundTrip {
	var buys, sells []market.Trade
	for _, t := range trades {
		switch t.Side {
		case market.SideBuy:
			buys = append(buys, t)
		case market.SideSell:
			sells = append(sells, t)
		}
	}

	n := min(len(buys), len(sells))
	pairs := make([]RoundTrip, n)
	for i := range n {
		pairs[i] = RoundTrip{Buy: buys[i], Sell: sells[i]}
	}
	return pairs
}

// PairTrades reports how many round trips the trades form, how many of them
// sold above the buy price and the share of profitable ones in percent.
func PairTrades(trades []market.Trade) (total, profitable int, accuracyPct float64) {
	pairs := Pair(trades)
	for _, p := range pairs {
		if p.Profitable() {
			profitable++
		}
	}

	total = len(pairs)
	if total > 0 {
		accuracyPct = float64(profitable) / float64(total) * 100
	}
	return
}
