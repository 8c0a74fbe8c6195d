package indicator

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gamma-omg/stock-analysis/internal/market"
)

type Action int

const (
	ActBuy  Action = 1
	ActHold Action = 0
	ActSell Action = -1
)

func (a Action) String() string {
	switch a {
	case ActBuy:
		return "Buy"
	case ActHold:
		return "Hold"
	case ActSell:
		return "Sell"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Value is one bar of an indicator channel. A channel has no value until its
// lookback window is filled, which is not the same as zero.
type Value struct {
	Float float64
	Valid bool
}

func Some(v float64) Value {
	return Value{Float: v, Valid: true}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v Value) String() string {
	if !v.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(v.Float, 'f', 2, 64)
}

// Frame is a price series annotated with indicator channels aligned by bar.
// Channels stay nil until the matching computation runs.
type Frame struct {
	Series     market.Series
	MA         []Value
	MAWindow   int
	Volatility []Value
	RSI        []Value
	BBUpper    []Value
	BBMid      []Value
	BBLower    []Value
	Signals    []Action
}

func NewFrame(s market.Series) (*Frame, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &Frame{Series: s}, nil
}

func (f *Frame) Len() int {
	return f.Series.Len()
}

func (f *Frame) validate() error {
	if f == nil {
		return fmt.Errorf("%w: missing indicator frame", market.ErrInvalidInput)
	}
	return f.Series.Validate()
}

func checkWindow(window int) error {
	if window < 1 {
		return fmt.Errorf("%w: window must be positive, got %d", market.ErrInvalidInput, window)
	}
	return nil
}
