package portfolio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
)

type document struct {
	Name           string                  `json:"name"`
	InitialCapital decimal.Decimal         `json:"initial_capital"`
	Cash           decimal.Decimal         `json:"cash"`
	Positions      map[string]jsonPosition `json:"positions"`
	Trades         []jsonTrade             `json:"trades"`
}

type jsonPosition struct {
	Shares   decimal.Decimal `json:"shares"`
	AvgPrice decimal.Decimal `json:"avg_price"`
}

type jsonTrade struct {
	Date   string          `json:"date"`
	Ticker string          `json:"ticker"`
	Action string          `json:"action"`
	Shares decimal.Decimal `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
}

// Older documents carry dates without a zone.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	market.DateLayout,
}

func Marshal(p *Portfolio) ([]byte, error) {
	doc := document{
		Name:           p.Name,
		InitialCapital: p.InitialCapital,
		Cash:           p.Cash,
		Positions:      make(map[string]jsonPosition, len(p.Positions)),
		Trades:         make([]jsonTrade, 0, len(p.Trades)),
	}

	for symbol, pos := range p.Positions {
		doc.Positions[symbol] = jsonPosition{Shares: pos.Shares, AvgPrice: pos.AvgPrice}
	}

	for _, t := range p.Trades {
		doc.Trades = append(doc.Trades, jsonTrade{
			Date:   t.Time.Format(time.RFC3339Nano),
			Ticker: t.Symbol,
			Action: string(t.Side),
			Shares: t.Shares,
			Price:  t.Price,
			Value:  t.Value(),
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode portfolio %q: %w", p.Name, err)
	}
	return data, nil
}

func Unmarshal(data []byte) (*Portfolio, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode portfolio: %w", err)
	}

	if doc.Name == "" {
		return nil, fmt.Errorf("%w: portfolio document has no name", market.ErrInvalidInput)
	}

	p := &Portfolio{
		Name:           doc.Name,
		InitialCapital: doc.InitialCapital,
		Cash:           doc.Cash,
		Positions:      make(map[string]Position, len(doc.Positions)),
		Trades:         make([]market.Trade, 0, len(doc.Trades)),
	}

	for symbol, pos := range doc.Positions {
		p.Positions[symbol] = Position{Shares: pos.Shares, AvgPrice: pos.AvgPrice}
	}

	for i, t := range doc.Trades {
		ts, err := parseDate(t.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to decode trade %d of %q: %w", i, doc.Name, err)
		}

		side, err := market.ParseSide(t.Action)
		if err != nil {
			return nil, fmt.Errorf("failed to decode trade %d of %q: %w", i, doc.Name, err)
		}

		p.Trades = append(p.Trades, market.Trade{
			Time:   ts,
			Symbol: t.Ticker,
			Side:   side,
			Shares: t.Shares,
			Price:  t.Price,
		})
	}

	return p, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: malformed trade date %q", market.ErrInvalidInput, s)
}
