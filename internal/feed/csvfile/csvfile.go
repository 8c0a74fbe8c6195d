package csvfile

import (
	"context"
	"fmt"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/market"
)

// Fetcher serves bars from local CSV files, one file per symbol.
type Fetcher struct {
	data map[string]string
}

func New(cfg config.CSV) *Fetcher {
	data := make(map[string]string, len(cfg.Data))
	for symbol, path := range cfg.Data {
		if s, err := market.NormalizeSymbol(symbol); err == nil {
			data[s] = path
		}
	}
	return &Fetcher{data: data}
}

func (f *Fetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) (market.Series, error) {
	symbol, err := market.NormalizeSymbol(symbol)
	if err != nil {
		return market.Series{}, err
	}
	if err := market.CheckRange(start, end); err != nil {
		return market.Series{}, err
	}
	if err := ctx.Err(); err != nil {
		return market.Series{}, err
	}

	path, ok := f.data[symbol]
	if !ok {
		return market.Series{}, fmt.Errorf("%w: no data file configured for %s", market.ErrNoData, symbol)
	}

	bars, err := readBars(path, func(b market.Bar) bool {
		return !b.Time.Before(start) && b.Time.Before(end)
	})
	if err != nil {
		return market.Series{}, fmt.Errorf("failed to read %s bars: %w", symbol, err)
	}
	if len(bars) == 0 {
		return market.Series{}, fmt.Errorf("%w: no data found for %s between %s and %s",
			market.ErrNoData, symbol, start.Format(market.DateLayout), end.Format(market.DateLayout))
	}

	return market.NewSeries(symbol, bars), nil
}
