package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide accepts any letter case, the way manual trades are typed in.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SideBuy):
		return SideBuy, nil
	case string(SideSell):
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w: unknown trade action %q", ErrInvalidInput, s)
	}
}

// Trade is immutable once recorded.
type Trade struct {
	Time   time.Time
	Symbol string
	Side   Side
	Shares decimal.Decimal
	Price  decimal.Decimal
}

func (t Trade) Value() decimal.Decimal {
	return t.Shares.Mul(t.Price)
}
