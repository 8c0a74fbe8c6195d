package analysis

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/feed"
	"github.com/gamma-omg/stock-analysis/internal/forecast"
	"github.com/gamma-omg/stock-analysis/internal/indicator"
	"github.com/gamma-omg/stock-analysis/internal/market"
)

type ForecastView struct {
	Symbol  string
	History market.Series
	Trend   *forecast.Result
}

// Forecast projects the symbol's trend days ahead from the configured history
// window ending now. The degree is clamped into the range the model accepts.
func (s *Service) Forecast(ctx context.Context, symbol string, days, degree int) (view *ForecastView, err error) {
	defer s.metrics.observe("forecast", time.Now(), &err)

	symbol, err = market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if days < 1 || days > forecast.MaxHorizon {
		return nil, fmt.Errorf("%w: forecast days must be in [1, %d], got %d", market.ErrInvalidInput, forecast.MaxHorizon, days)
	}

	end := s.now().UTC()
	start := end.AddDate(0, 0, -s.cfg.ForecastDays)

	series, err := s.feed.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	trend, err := forecast.Trend(series, days, forecast.ClampDegree(degree))
	if err != nil {
		return nil, err
	}

	return &ForecastView{Symbol: symbol, History: series, Trend: trend}, nil
}

// Comparison lines up the closes of several symbols on the union of their
// dates. A symbol without a bar on some date has no value there.
type Comparison struct {
	Dates   []time.Time
	Symbols []string
	Closes  map[string][]indicator.Value
	Failed  []string
}

func (s *Service) Compare(ctx context.Context, symbols []string, start, end time.Time) (cmp *Comparison, err error) {
	defer s.metrics.observe("compare", time.Now(), &err)

	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: tickers list cannot be empty", market.ErrInvalidInput)
	}
	if err := market.CheckRange(start, end); err != nil {
		return nil, err
	}

	symbols, invalid := s.splitSymbols(symbols)
	series, failed := feed.FetchMany(ctx, s.log, s.feed, symbols, start, end, s.workers)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no valid data found for any of the provided tickers", market.ErrNoData)
	}
	s.metrics.FetchFailures.Add(float64(len(failed)))

	index := make(map[time.Time]int)
	for _, ser := range series {
		for _, b := range ser.Bars {
			index[b.Time] = 0
		}
	}

	dates := slices.SortedFunc(maps.Keys(index), func(a, b time.Time) int { return a.Compare(b) })
	for i, d := range dates {
		index[d] = i
	}

	cmp = &Comparison{
		Dates:  dates,
		Closes: make(map[string][]indicator.Value, len(series)),
		Failed: append(invalid, failed...),
	}
	for _, symbol := range symbols {
		ser, ok := series[symbol]
		if !ok {
			continue
		}

		closes := make([]indicator.Value, len(dates))
		for _, b := range ser.Bars {
			v, _ := b.Close.Float64()
			closes[index[b.Time]] = indicator.Some(v)
		}

		cmp.Symbols = append(cmp.Symbols, symbol)
		cmp.Closes[symbol] = closes
	}

	return cmp, nil
}
