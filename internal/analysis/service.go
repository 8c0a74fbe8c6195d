package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/backtest"
	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/feed"
	"github.com/gamma-omg/stock-analysis/internal/indicator"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/gamma-omg/stock-analysis/internal/portfolio"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultSymbols is analyzed when a batch request names neither the index
// nor a custom list.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "TSLA", "NVDA"}

// livePriceLookback is how far back a live price lookup searches for the
// latest daily bar.
const livePriceLookback = 10 * 24 * time.Hour

type Service struct {
	log     *slog.Logger
	cfg     config.Analysis
	workers int
	feed    feed.Fetcher
	ledger  *portfolio.Ledger
	metrics *Metrics
	now     func() time.Time
}

func NewService(log *slog.Logger, cfg config.Analysis, workers int, f feed.Fetcher, ledger *portfolio.Ledger, metrics *Metrics) *Service {
	return &Service{
		log:     log,
		cfg:     cfg,
		workers: workers,
		feed:    f,
		ledger:  ledger,
		metrics: metrics,
		now:     time.Now,
	}
}

type SignalPoint struct {
	Time   time.Time
	Signal indicator.Action
	Price  decimal.Decimal
	RSI    indicator.Value
}

type SymbolAnalysis struct {
	Symbol   string
	Frame    *indicator.Frame
	Backtest *backtest.Result
	Recent   []SignalPoint
}

// AnalyzeSymbol fetches the range, derives signals and backtests them.
func (s *Service) AnalyzeSymbol(ctx context.Context, symbol string, start, end time.Time) (res *SymbolAnalysis, err error) {
	defer s.metrics.observe("analyze", time.Now(), &err)

	symbol, err = market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	series, err := s.feed.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	return s.analyze(series)
}

func (s *Service) analyze(series market.Series) (*SymbolAnalysis, error) {
	frame, err := indicator.Analyze(series, s.cfg.Signals, s.cfg.MAWindow)
	if err != nil {
		return nil, err
	}

	res, err := backtest.Run(frame, decimal.NewFromFloat(s.cfg.InitialCapital))
	if err != nil {
		return nil, err
	}

	return &SymbolAnalysis{
		Symbol:   series.Symbol,
		Frame:    frame,
		Backtest: res,
		Recent:   recentSignals(frame, s.cfg.RecentSignals),
	}, nil
}

func recentSignals(f *indicator.Frame, n int) []SignalPoint {
	from := max(0, f.Len()-n)
	points := make([]SignalPoint, 0, f.Len()-from)
	for i := from; i < f.Len(); i++ {
		points = append(points, SignalPoint{
			Time:   f.Series.Bars[i].Time,
			Signal: f.Signals[i],
			Price:  f.Series.Bars[i].Close,
			RSI:    f.RSI[i],
		})
	}
	return points
}

type SymbolSummary struct {
	Symbol         string
	TotalReturnPct float64
	AccuracyPct    float64
	TotalTrades    int
	FinalCapital   decimal.Decimal
	Analysis       *SymbolAnalysis
}

type BatchSummary struct {
	TotalStocks     int
	AnalyzedStocks  int
	AverageReturn   float64
	AverageAccuracy float64
	BestPerformer   string
	WorstPerformer  string
	Results         []SymbolSummary
	Failed          []string
}

// BatchSymbols resolves the symbol list of a batch request: "sp500" takes the
// head of the index sample, "custom" splits a comma separated list and
// anything else falls back to DefaultSymbols. Custom entries are only
// upper-cased and deduplicated here; malformed ones are reported as failed by
// the batch operations instead of rejecting the request.
func (s *Service) BatchSymbols(kind, custom string) ([]string, error) {
	switch kind {
	case "", "sp500":
		return feed.Universe(s.cfg.BatchLimit), nil
	case "custom":
		var symbols []string
		seen := make(map[string]bool)
		for _, raw := range strings.Split(custom, ",") {
			symbol := strings.ToUpper(strings.TrimSpace(raw))
			if symbol == "" || seen[symbol] {
				continue
			}
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
		if len(symbols) == 0 {
			return nil, fmt.Errorf("%w: no valid tickers provided", market.ErrInvalidInput)
		}
		return symbols, nil
	default:
		return append([]string(nil), DefaultSymbols...), nil
	}
}

// splitSymbols normalizes symbols and sets the malformed ones aside.
func (s *Service) splitSymbols(symbols []string) (valid, invalid []string) {
	for _, raw := range symbols {
		symbol, err := market.NormalizeSymbol(raw)
		if err != nil {
			s.log.Warn("skipping malformed ticker", slog.String("symbol", raw), slog.String("error", err.Error()))
			invalid = append(invalid, raw)
			continue
		}
		valid = append(valid, symbol)
	}
	return valid, invalid
}

// BatchAnalyze analyzes every symbol independently. Symbols that are
// malformed or fail to fetch or analyze are logged and listed in Failed
// without affecting the rest. The average accuracy only counts symbols with at
// least one round trip.
func (s *Service) BatchAnalyze(ctx context.Context, symbols []string, start, end time.Time) (sum *BatchSummary, err error) {
	defer s.metrics.observe("batch", time.Now(), &err)

	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: tickers list cannot be empty", market.ErrInvalidInput)
	}
	if err := market.CheckRange(start, end); err != nil {
		return nil, err
	}

	total := len(symbols)
	symbols, invalid := s.splitSymbols(symbols)
	series, failed := feed.FetchMany(ctx, s.log, s.feed, symbols, start, end, s.workers)

	sum = &BatchSummary{TotalStocks: total}
	var accuracySum float64
	var withTrades int

	for _, symbol := range symbols {
		ser, ok := series[symbol]
		if !ok {
			continue
		}

		a, err := s.analyze(ser)
		if err != nil {
			s.log.Warn("failed to analyze symbol", slog.String("symbol", symbol), slog.String("error", err.Error()))
			failed = append(failed, symbol)
			continue
		}

		bt := a.Backtest
		sum.Results = append(sum.Results, SymbolSummary{
			Symbol:         symbol,
			TotalReturnPct: bt.TotalReturnPct,
			AccuracyPct:    bt.AccuracyPct,
			TotalTrades:    bt.TotalTrades,
			FinalCapital:   bt.FinalCapital,
			Analysis:       a,
		})

		sum.AverageReturn += bt.TotalReturnPct
		if bt.TotalTrades > 0 {
			accuracySum += bt.AccuracyPct
			withTrades++
		}
	}

	s.metrics.FetchFailures.Add(float64(len(failed)))
	sum.Failed = append(invalid, failed...)
	sum.AnalyzedStocks = len(sum.Results)
	if sum.AnalyzedStocks == 0 {
		return sum, nil
	}

	sum.AverageReturn /= float64(sum.AnalyzedStocks)
	if withTrades > 0 {
		sum.AverageAccuracy = accuracySum / float64(withTrades)
	}

	best, worst := sum.Results[0], sum.Results[0]
	for _, r := range sum.Results[1:] {
		if r.TotalReturnPct > best.TotalReturnPct {
			best = r
		}
		if r.TotalReturnPct < worst.TotalReturnPct {
			worst = r
		}
	}
	sum.BestPerformer = best.Symbol
	sum.WorstPerformer = worst.Symbol

	s.log.Info("batch analysis finished",
		slog.Int("total", sum.TotalStocks),
		slog.Int("analyzed", sum.AnalyzedStocks),
		slog.Float64("average_return", sum.AverageReturn))
	return sum, nil
}

type PortfolioView struct {
	Portfolio *portfolio.Portfolio
	Metrics   portfolio.Metrics
	Positions []portfolio.Holding
}

// CreatePortfolio replays the symbol's signals into a new portfolio, stores
// it and values it at the last close of the range.
func (s *Service) CreatePortfolio(ctx context.Context, symbol string, start, end time.Time, capital decimal.Decimal) (view *PortfolioView, err error) {
	defer s.metrics.observe("create_portfolio", time.Now(), &err)

	symbol, err = market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	series, err := s.feed.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	frame, err := indicator.Analyze(series, s.cfg.Signals, s.cfg.MAWindow)
	if err != nil {
		return nil, err
	}

	p, err := portfolio.CreateFromSignals(frame, symbol, capital)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Save(ctx, p); err != nil {
		return nil, err
	}

	last, err := series.LastBar()
	if err != nil {
		return nil, err
	}
	prices := map[string]decimal.Decimal{symbol: last.Close}

	s.log.Info("portfolio created", slog.String("portfolio", p.Name), slog.Int("trades", len(p.Trades)))
	return &PortfolioView{
		Portfolio: p,
		Metrics:   p.Metrics(prices),
		Positions: p.PositionSummary(prices),
	}, nil
}

// GetPortfolio loads a stored portfolio and values it at live prices. A held
// symbol whose price cannot be fetched is valued at zero.
func (s *Service) GetPortfolio(ctx context.Context, name string) (view *PortfolioView, err error) {
	defer s.metrics.observe("get_portfolio", time.Now(), &err)

	p, err := s.ledger.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	prices := s.livePrices(ctx, p.Symbols())
	return &PortfolioView{
		Portfolio: p,
		Metrics:   p.Metrics(prices),
		Positions: p.PositionSummary(prices),
	}, nil
}

func (s *Service) livePrices(ctx context.Context, symbols []string) map[string]decimal.Decimal {
	book := newPriceBook()
	end := s.now()
	start := end.Add(-livePriceLookback)

	var g errgroup.Group
	g.SetLimit(max(1, min(s.workers, feed.MaxWorkers)))
	for _, symbol := range symbols {
		g.Go(func() error {
			series, err := s.feed.Fetch(ctx, symbol, start, end)
			if err != nil {
				s.log.Warn("failed to fetch live price", slog.String("symbol", symbol), slog.String("error", err.Error()))
				return nil
			}

			if bar, err := series.LastBar(); err == nil {
				book.UpdatePrice(symbol, bar)
			}
			return nil
		})
	}
	_ = g.Wait()

	return book.Closes()
}

// AddTrade appends a manual trade stamped with the current time.
func (s *Service) AddTrade(ctx context.Context, name, symbol, action string, shares, price decimal.Decimal) (p *portfolio.Portfolio, err error) {
	defer s.metrics.observe("add_trade", time.Now(), &err)

	symbol, err = market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	side, err := market.ParseSide(action)
	if err != nil {
		return nil, err
	}

	p, err = s.ledger.AddTrade(ctx, name, market.Trade{
		Time:   s.now().UTC(),
		Symbol: symbol,
		Side:   side,
		Shares: shares,
		Price:  price,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TradesRecorded.WithLabelValues(string(side)).Inc()
	return p, nil
}
