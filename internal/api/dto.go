package api

import (
	"time"

	"github.com/gamma-omg/stock-analysis/internal/analysis"
	"github.com/gamma-omg/stock-analysis/internal/backtest"
	"github.com/gamma-omg/stock-analysis/internal/indicator"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/gamma-omg/stock-analysis/internal/portfolio"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type analyzeRequest struct {
	Ticker    string `json:"ticker"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type batchRequest struct {
	AnalysisType  string `json:"analysisType"`
	CustomTickers string `json:"customTickers"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
}

type createPortfolioRequest struct {
	Ticker         string           `json:"ticker"`
	StartDate      string           `json:"startDate"`
	EndDate        string           `json:"endDate"`
	InitialCapital *decimal.Decimal `json:"initialCapital"`
}

type tradeRequest struct {
	Ticker string          `json:"ticker"`
	Action string          `json:"action"`
	Shares decimal.Decimal `json:"shares"`
	Price  decimal.Decimal `json:"price"`
}

type forecastRequest struct {
	Ticker string `json:"ticker"`
	Days   int    `json:"days"`
	Degree int    `json:"degree"`
}

type compareRequest struct {
	Tickers   string `json:"tickers"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type tradeDTO struct {
	Date   time.Time `json:"date"`
	Ticker string    `json:"ticker"`
	Action string    `json:"action"`
	Shares float64   `json:"shares"`
	Price  float64   `json:"price"`
	Value  float64   `json:"value"`
}

type backtestDTO struct {
	InitialCapital   float64    `json:"initial_capital"`
	FinalCapital     float64    `json:"final_capital"`
	TotalReturnPct   float64    `json:"total_return_pct"`
	TotalTrades      int        `json:"total_trades"`
	ProfitableTrades int        `json:"profitable_trades"`
	AccuracyPct      float64    `json:"accuracy_pct"`
	Trades           []tradeDTO `json:"trades"`
	EquityCurve      []float64  `json:"equity_curve"`
}

type chartDTO struct {
	Dates      []string          `json:"dates"`
	Prices     []float64         `json:"prices"`
	Volume     []float64         `json:"volume"`
	RSI        []indicator.Value `json:"rsi"`
	BBUpper    []indicator.Value `json:"bb_upper"`
	BBLower    []indicator.Value `json:"bb_lower"`
	BBMid      []indicator.Value `json:"bb_mid"`
	MA         []indicator.Value `json:"ma"`
	Volatility []indicator.Value `json:"volatility"`
}

type signalDTO struct {
	Date   string           `json:"date"`
	Signal indicator.Action `json:"signal"`
	Price  float64          `json:"price"`
	RSI    indicator.Value  `json:"rsi"`
}

type analyzeResponse struct {
	Ticker        string      `json:"ticker"`
	Results       backtestDTO `json:"results"`
	ChartData     chartDTO    `json:"chart_data"`
	RecentSignals []signalDTO `json:"recent_signals"`
}

type symbolSummaryDTO struct {
	Ticker       string  `json:"ticker"`
	TotalReturn  float64 `json:"total_return"`
	Accuracy     float64 `json:"accuracy"`
	TotalTrades  int     `json:"total_trades"`
	FinalCapital float64 `json:"final_capital"`
}

type batchResponse struct {
	TotalStocks     int                `json:"total_stocks"`
	AnalyzedStocks  int                `json:"analyzed_stocks"`
	AverageReturn   float64            `json:"average_return"`
	AverageAccuracy float64            `json:"average_accuracy"`
	BestPerformer   *string            `json:"best_performer"`
	WorstPerformer  *string            `json:"worst_performer"`
	Results         []symbolSummaryDTO `json:"results"`
	Failed          []string           `json:"failed_tickers"`
}

type positionDTO struct {
	Shares   float64 `json:"shares"`
	AvgPrice float64 `json:"avg_price"`
}

type metricsDTO struct {
	InitialCapital   float64                `json:"initial_capital"`
	CurrentValue     float64                `json:"current_value"`
	TotalReturnPct   float64                `json:"total_return_pct"`
	TotalTrades      int                    `json:"total_trades"`
	ProfitableTrades int                    `json:"profitable_trades"`
	AccuracyPct      float64                `json:"accuracy_pct"`
	Cash             float64                `json:"cash"`
	Positions        map[string]positionDTO `json:"positions"`
}

type holdingDTO struct {
	Ticker           string  `json:"ticker"`
	Shares           float64 `json:"shares"`
	AvgPrice         float64 `json:"avg_price"`
	CurrentPrice     float64 `json:"current_price"`
	MarketValue      float64 `json:"market_value"`
	UnrealizedPnL    float64 `json:"unrealized_pnl"`
	UnrealizedPnLPct float64 `json:"unrealized_pnl_pct"`
}

type createPortfolioResponse struct {
	PortfolioName string     `json:"portfolio_name"`
	Metrics       metricsDTO `json:"metrics"`
	Trades        []tradeDTO `json:"trades"`
}

type portfolioDTO struct {
	Name           string     `json:"name"`
	InitialCapital float64    `json:"initial_capital"`
	Cash           float64    `json:"cash"`
	Trades         []tradeDTO `json:"trades"`
}

type portfolioResponse struct {
	Portfolio portfolioDTO `json:"portfolio"`
	Metrics   metricsDTO   `json:"metrics"`
	Positions []holdingDTO `json:"positions"`
}

type forecastResponse struct {
	Ticker         string    `json:"ticker"`
	HistoryDates   []string  `json:"history_dates"`
	HistoryPrices  []float64 `json:"history_prices"`
	Fitted         []float64 `json:"fitted"`
	ForecastDates  []string  `json:"forecast_dates"`
	ForecastPrices []float64 `json:"forecast_prices"`
	UpperBound     []float64 `json:"upper_bound"`
	LowerBound     []float64 `json:"lower_bound"`
}

type compareResponse struct {
	Dates   []string                     `json:"dates"`
	Tickers []string                     `json:"tickers"`
	Closes  map[string][]indicator.Value `json:"closes"`
	Failed  []string                     `json:"failed_tickers"`
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toFloats(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = toFloat(d)
	}
	return out
}

func formatDates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(dateLayout)
	}
	return out
}

func newTrades(trades []market.Trade) []tradeDTO {
	out := make([]tradeDTO, len(trades))
	for i, t := range trades {
		out[i] = tradeDTO{
			Date:   t.Time,
			Ticker: t.Symbol,
			Action: string(t.Side),
			Shares: toFloat(t.Shares),
			Price:  toFloat(t.Price),
			Value:  toFloat(t.Value()),
		}
	}
	return out
}

func newBacktest(r *backtest.Result) backtestDTO {
	return backtestDTO{
		InitialCapital:   toFloat(r.InitialCapital),
		FinalCapital:     toFloat(r.FinalCapital),
		TotalReturnPct:   r.TotalReturnPct,
		TotalTrades:      r.TotalTrades,
		ProfitableTrades: r.ProfitableTrades,
		AccuracyPct:      r.AccuracyPct,
		Trades:           newTrades(r.Trades),
		EquityCurve:      toFloats(r.EquityCurve),
	}
}

func newChart(f *indicator.Frame) chartDTO {
	c := chartDTO{
		Dates:      make([]string, f.Len()),
		Prices:     make([]float64, f.Len()),
		Volume:     make([]float64, f.Len()),
		RSI:        f.RSI,
		BBUpper:    f.BBUpper,
		BBLower:    f.BBLower,
		BBMid:      f.BBMid,
		MA:         f.MA,
		Volatility: f.Volatility,
	}
	for i, b := range f.Series.Bars {
		c.Dates[i] = b.Time.Format(dateLayout)
		c.Prices[i] = toFloat(b.Close)
		c.Volume[i] = toFloat(b.Volume)
	}
	return c
}

func newAnalyzeResponse(a *analysis.SymbolAnalysis) analyzeResponse {
	recent := make([]signalDTO, len(a.Recent))
	for i, p := range a.Recent {
		recent[i] = signalDTO{
			Date:   p.Time.Format(dateLayout),
			Signal: p.Signal,
			Price:  toFloat(p.Price),
			RSI:    p.RSI,
		}
	}

	return analyzeResponse{
		Ticker:        a.Symbol,
		Results:       newBacktest(a.Backtest),
		ChartData:     newChart(a.Frame),
		RecentSignals: recent,
	}
}

func newBatchResponse(s *analysis.BatchSummary) batchResponse {
	resp := batchResponse{
		TotalStocks:     s.TotalStocks,
		AnalyzedStocks:  s.AnalyzedStocks,
		AverageReturn:   s.AverageReturn,
		AverageAccuracy: s.AverageAccuracy,
		Results:         make([]symbolSummaryDTO, len(s.Results)),
		Failed:          s.Failed,
	}
	if resp.Failed == nil {
		resp.Failed = []string{}
	}
	if s.AnalyzedStocks > 0 {
		resp.BestPerformer = &s.BestPerformer
		resp.WorstPerformer = &s.WorstPerformer
	}

	for i, r := range s.Results {
		resp.Results[i] = symbolSummaryDTO{
			Ticker:       r.Symbol,
			TotalReturn:  r.TotalReturnPct,
			Accuracy:     r.AccuracyPct,
			TotalTrades:  r.TotalTrades,
			FinalCapital: toFloat(r.FinalCapital),
		}
	}
	return resp
}

func newMetrics(m portfolio.Metrics) metricsDTO {
	positions := make(map[string]positionDTO, len(m.Positions))
	for symbol, p := range m.Positions {
		positions[symbol] = positionDTO{Shares: toFloat(p.Shares), AvgPrice: toFloat(p.AvgPrice)}
	}

	return metricsDTO{
		InitialCapital:   toFloat(m.InitialCapital),
		CurrentValue:     toFloat(m.CurrentValue),
		TotalReturnPct:   m.TotalReturnPct,
		TotalTrades:      m.TotalTrades,
		ProfitableTrades: m.ProfitableTrades,
		AccuracyPct:      m.AccuracyPct,
		Cash:             toFloat(m.Cash),
		Positions:        positions,
	}
}

func newHoldings(hs []portfolio.Holding) []holdingDTO {
	out := make([]holdingDTO, len(hs))
	for i, h := range hs {
		out[i] = holdingDTO{
			Ticker:           h.Symbol,
			Shares:           toFloat(h.Shares),
			AvgPrice:         toFloat(h.AvgPrice),
			CurrentPrice:     toFloat(h.CurrentPrice),
			MarketValue:      toFloat(h.MarketValue),
			UnrealizedPnL:    toFloat(h.UnrealizedPnL),
			UnrealizedPnLPct: h.UnrealizedPnLPct,
		}
	}
	return out
}

func newPortfolioResponse(v *analysis.PortfolioView) portfolioResponse {
	p := v.Portfolio
	return portfolioResponse{
		Portfolio: portfolioDTO{
			Name:           p.Name,
			InitialCapital: toFloat(p.InitialCapital),
			Cash:           toFloat(p.Cash),
			Trades:         newTrades(p.Trades),
		},
		Metrics:   newMetrics(v.Metrics),
		Positions: newHoldings(v.Positions),
	}
}

func newForecastResponse(v *analysis.ForecastView) forecastResponse {
	dates := make([]time.Time, v.History.Len())
	for i, b := range v.History.Bars {
		dates[i] = b.Time
	}

	return forecastResponse{
		Ticker:         v.Symbol,
		HistoryDates:   formatDates(dates),
		HistoryPrices:  v.History.Closes(),
		Fitted:         v.Trend.Fitted,
		ForecastDates:  formatDates(v.Trend.Dates),
		ForecastPrices: v.Trend.Forecast,
		UpperBound:     v.Trend.Upper,
		LowerBound:     v.Trend.Lower,
	}
}

func newCompareResponse(c *analysis.Comparison) compareResponse {
	resp := compareResponse{
		Dates:   formatDates(c.Dates),
		Tickers: c.Symbols,
		Closes:  c.Closes,
		Failed:  c.Failed,
	}
	if resp.Failed == nil {
		resp.Failed = []string{}
	}
	return resp
}
