package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/analysis"
	"github.com/gamma-omg/stock-analysis/internal/api"
	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/feed"
	"github.com/gamma-omg/stock-analysis/internal/portfolio"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal(err)
	}

	cfg, err := config.ReadFromFile(os.Getenv("CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	f, err := feed.Create(logger, cfg.Feed.ProviderRef)
	if err != nil {
		log.Fatal(err)
	}

	store, err := portfolio.OpenStore(cfg.StoreRef)
	if err != nil {
		log.Fatal(err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ledger := portfolio.NewLedger(logger, store)
	svc := analysis.NewService(logger, cfg.Analysis, cfg.Feed.MaxWorkers, f, ledger, analysis.NewMetrics(reg))
	h := api.NewHandler(logger, svc, cfg.Analysis.InitialCapital)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(logger, h, cfg.Server, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down server", slog.String("error", err.Error()))
		}
	}()

	logger.Info("server started", slog.String("addr", cfg.Server.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", slog.String("error", err.Error()))
	}
}
