package market

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Series is an ordered run of bars for one symbol. Every rolling computation
// walks it in timestamp order.
type Series struct {
	Symbol string
	Bars   []Bar
}

func NewSeries(symbol string, bars []Bar) Series {
	return Series{Symbol: symbol, Bars: bars}
}

func (s Series) Len() int {
	return len(s.Bars)
}

// Validate checks the series can be analyzed: it must hold at least one bar,
// timestamps must strictly increase and no price may be negative.
func (s Series) Validate() error {
	if len(s.Bars) == 0 {
		return fmt.Errorf("%w: empty price series for %q", ErrInvalidInput, s.Symbol)
	}

	for i, b := range s.Bars {
		if b.Close.IsNegative() || b.Open.IsNegative() || b.High.IsNegative() || b.Low.IsNegative() || b.Volume.IsNegative() {
			return fmt.Errorf("%w: negative value in bar %d of %q", ErrInvalidInput, i, s.Symbol)
		}
		if i > 0 && !b.Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("%w: bar %d of %q is not after the previous bar", ErrInvalidInput, i, s.Symbol)
		}
	}

	return nil
}

func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i], _ = b.Close.Float64()
	}
	return closes
}

func (s Series) LastBar() (Bar, error) {
	if len(s.Bars) == 0 {
		return Bar{}, fmt.Errorf("%w: empty price series for %q", ErrInvalidInput, s.Symbol)
	}
	return s.Bars[len(s.Bars)-1], nil
}

// NormalizeSymbol upper-cases and trims a ticker, rejecting blank input.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("%w: ticker must be a non-empty string", ErrInvalidInput)
	}
	if strings.ContainsAny(s, " \t\n/\\") {
		return "", fmt.Errorf("%w: malformed ticker %q", ErrInvalidInput, symbol)
	}
	return s, nil
}

// ParseDateRange parses YYYY-MM-DD bounds; start must precede end.
func ParseDateRange(start, end string) (from, to time.Time, err error) {
	from, err = time.Parse(DateLayout, strings.TrimSpace(start))
	if err != nil {
		err = fmt.Errorf("%w: malformed start date %q", ErrInvalidInput, start)
		return
	}

	to, err = time.Parse(DateLayout, strings.TrimSpace(end))
	if err != nil {
		err = fmt.Errorf("%w: malformed end date %q", ErrInvalidInput, end)
		return
	}

	if !from.Before(to) {
		err = fmt.Errorf("%w: start date %s is not before end date %s", ErrInvalidInput, start, end)
	}
	return
}

// CheckRange rejects empty or inverted fetch ranges.
func CheckRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start date and end date must be provided", ErrInvalidInput)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start date %s is not before end date %s", ErrInvalidInput, start.Format(DateLayout), end.Format(DateLayout))
	}
	return nil
}
