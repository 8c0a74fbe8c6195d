package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/market"
	"golang.org/x/sync/errgroup"
)

// MaxWorkers caps the number of concurrent fetches regardless of the
// requested pool size.
const MaxWorkers = 20

// Fetcher loads daily bars for one symbol. It fails with market.ErrNoData when
// the range holds no bars and market.ErrInvalidInput for malformed arguments.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (market.Series, error)
}

// FetchMany fetches every symbol on a bounded pool of min(workers, len(symbols), MaxWorkers)
// goroutines. A failing symbol is logged and listed in failed; it never aborts
// the rest of the batch. Failed symbols keep their input order.
func FetchMany(ctx context.Context, log *slog.Logger, f Fetcher, symbols []string, start, end time.Time, workers int) (map[string]market.Series, []string) {
	series := make(map[string]market.Series, len(symbols))
	if len(symbols) == 0 {
		return series, nil
	}

	var g errgroup.Group
	g.SetLimit(max(1, min(workers, len(symbols), MaxWorkers)))

	errs := make([]error, len(symbols))
	var mu sync.Mutex

	for i, symbol := range symbols {
		g.Go(func() error {
			s, err := f.Fetch(ctx, symbol, start, end)
			if err != nil {
				errs[i] = err
				log.Warn("failed to fetch symbol", slog.String("symbol", symbol), slog.String("error", err.Error()))
				return nil
			}

			mu.Lock()
			series[symbol] = s
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i, err := range errs {
		if err != nil {
			failed = append(failed, symbols[i])
		}
	}

	log.Info("batch fetch finished", slog.Int("fetched", len(series)), slog.Int("failed", len(failed)))
	return series, failed
}
