package feed

import (
	"fmt"
	"log/slog"

	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/feed/alpaca"
	"github.com/gamma-omg/stock-analysis/internal/feed/csvfile"
	"github.com/gamma-omg/stock-analysis/internal/feed/yahoo"
)

func Create(log *slog.Logger, cfg config.ProviderReference) (Fetcher, error) {
	switch p := cfg.Provider.(type) {
	case config.Yahoo:
		return yahoo.New(log, p), nil
	case config.Alpaca:
		return alpaca.New(log, p), nil
	case config.CSV:
		return csvfile.New(p), nil
	default:
		return nil, fmt.Errorf("unknown price feed: %v", cfg.Provider)
	}
}
