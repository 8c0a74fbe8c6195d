package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/analysis"
	"github.com/gamma-omg/stock-analysis/internal/backtest"
	"github.com/gamma-omg/stock-analysis/internal/chart"
	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/feed"
	"github.com/gamma-omg/stock-analysis/internal/feed/csvfile"
	"github.com/gamma-omg/stock-analysis/internal/forecast"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/gamma-omg/stock-analysis/internal/portfolio"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal(err)
	}

	cfg, err := config.ReadFromFile(os.Getenv("CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	if err := run(ctx, logger, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Config) error {
	start, end, err := batchRange(cfg.Batch)
	if err != nil {
		return err
	}

	f, err := feed.Create(log, cfg.Feed.ProviderRef)
	if err != nil {
		return err
	}

	store, err := portfolio.OpenStore(cfg.StoreRef)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	ledger := portfolio.NewLedger(log, store)
	metrics := analysis.NewMetrics(prometheus.NewRegistry())
	svc := analysis.NewService(log, cfg.Analysis, cfg.Feed.MaxWorkers, f, ledger, metrics)

	symbols, err := batchSymbols(svc, cfg.Batch)
	if err != nil {
		return err
	}

	sum, err := svc.BatchAnalyze(ctx, symbols, start, end)
	if err != nil {
		return err
	}

	report := backtest.NewReportBuilder(log)
	for _, r := range sum.Results {
		report.SubmitResult(r.Analysis.Backtest)

		if err := writeArtifacts(cfg.Batch, r.Analysis); err != nil {
			log.Warn("failed to write artifacts", slog.String("symbol", r.Symbol), slog.String("error", err.Error()))
		}
	}
	for _, symbol := range sum.Failed {
		report.SubmitFailure(symbol)
	}

	if cfg.Batch.Report != "" {
		if err := report.WriteToFile(cfg.Batch.Report); err != nil {
			return err
		}
	} else if err := report.Write(os.Stdout); err != nil {
		return err
	}

	log.Info("batch finished",
		slog.Int("analyzed", sum.AnalyzedStocks),
		slog.Int("failed", len(sum.Failed)),
		slog.Float64("average_return", sum.AverageReturn),
		slog.Float64("average_accuracy", sum.AverageAccuracy),
		slog.String("best", sum.BestPerformer),
		slog.String("worst", sum.WorstPerformer))
	return nil
}

// batchRange defaults to the year ending today.
func batchRange(cfg config.Batch) (time.Time, time.Time, error) {
	if cfg.Start == "" && cfg.End == "" {
		end := time.Now().UTC().Truncate(24 * time.Hour)
		return end.AddDate(-1, 0, 0), end, nil
	}
	return market.ParseDateRange(cfg.Start, cfg.End)
}

func batchSymbols(svc *analysis.Service, cfg config.Batch) ([]string, error) {
	switch {
	case cfg.Universe:
		return svc.BatchSymbols("sp500", "")
	case len(cfg.Symbols) > 0:
		return svc.BatchSymbols("custom", strings.Join(cfg.Symbols, ","))
	default:
		return svc.BatchSymbols("default", "")
	}
}

func writeArtifacts(cfg config.Batch, a *analysis.SymbolAnalysis) error {
	if cfg.ChartDir != "" {
		fig, err := chart.Analysis(a.Frame, a.Backtest)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.ChartDir, 0o755); err != nil {
			return fmt.Errorf("failed to create chart dir: %w", err)
		}
		if err := fig.Save(filepath.Join(cfg.ChartDir, a.Symbol+".png")); err != nil {
			return err
		}

		trend, err := forecast.Trend(a.Frame.Series, cfg.ForecastHorizon, forecast.ClampDegree(cfg.ForecastDegree))
		if err != nil {
			return err
		}
		fig, err = chart.Forecast(a.Frame.Series, trend)
		if err != nil {
			return err
		}
		if err := fig.Save(filepath.Join(cfg.ChartDir, a.Symbol+"_forecast.png")); err != nil {
			return err
		}
	}

	if cfg.DataDump != "" {
		if err := dumpSeries(cfg.DataDump, a.Frame.Series); err != nil {
			return err
		}
	}
	return nil
}

func dumpSeries(dir string, s market.Series) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dump dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, s.Symbol+".csv"))
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close dump file: %w", cerr))
		}
	}()

	return csvfile.NewDump(f).DumpSeries(s)
}
