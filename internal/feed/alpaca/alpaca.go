package alpaca

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
)

type alpacaApi interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// Fetcher reads split-adjusted daily stock bars from Alpaca market data.
type Fetcher struct {
	log  *slog.Logger
	api  alpacaApi
	feed string
}

func New(log *slog.Logger, cfg config.Alpaca) *Fetcher {
	return &Fetcher{
		log:  log,
		api:  newAlpacaApi(cfg.ApiKey, cfg.Secret, cfg.BaseUrl),
		feed: cfg.Feed,
	}
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

	req := marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end,
	}
	if f.feed != "" {
		req.Feed = marketdata.Feed(f.feed)
	}

	history, err := f.api.GetBars(symbol, req)
	if err != nil {
		return market.Series{}, fmt.Errorf("failed to get %s bars from alpaca: %w", symbol, err)
	}
	if len(history) == 0 {
		return market.Series{}, fmt.Errorf("%w: no data found for %s between %s and %s",
			market.ErrNoData, symbol, start.Format(market.DateLayout), end.Format(market.DateLayout))
	}

	bars := make([]market.Bar, len(history))
	for i, b := range history {
		bars[i] = market.Bar{
			Time:   b.Timestamp.UTC(),
			Open:   decimal.NewFromFloat(b.Open),
			High:   decimal.NewFromFloat(b.High),
			Low:    decimal.NewFromFloat(b.Low),
			Close:  decimal.NewFromFloat(b.Close),
			Volume: decimal.NewFromInt(int64(b.Volume)),
		}
	}

	f.log.Debug("bars fetched", slog.String("symbol", symbol), slog.Int("count", len(bars)))
	return market.NewSeries(symbol, bars), nil
}
