package backtest

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type ReportBuilder struct {
	log     *slog.Logger
	report  JsonReport
	initial decimal.Decimal
	final   decimal.Decimal
	mu      sync.Mutex
}

type JsonReport struct {
	TotalInitial   string                `json:"total_initial,omitempty"`
	TotalFinal     string                `json:"total_final,omitempty"`
	TotalReturnPct float64               `json:"total_return_pct,omitempty"`
	Failed         []string              `json:"failed,omitempty"`
	Symbols        map[string]JsonSymbol `json:"symbols,omitempty"`
}

type JsonSymbol struct {
	InitialCapital   string     `json:"initial_capital"`
	FinalCapital     string     `json:"final_capital"`
	ReturnPct        float64    `json:"return_pct"`
	TotalTrades      int        `json:"total_trades"`
	ProfitableTrades int        `json:"profitable_trades"`
	AccuracyPct      float64    `json:"accuracy_pct"`
	Deals            []JsonDeal `json:"deals,omitempty"`
}

type JsonDeal struct {
	BuyTime  time.Time `json:"buy_time,omitzero"`
	SellTime time.Time `json:"sell_time,omitzero"`
	Spend    string    `json:"spend,omitempty"`
	Gain     string    `json:"gain,omitempty"`
	GainPct  float64   `json:"gain_pct,omitempty"`
}

func NewReportBuilder(log *slog.Logger) *ReportBuilder {
	return &ReportBuilder{
		log: log,
		report: JsonReport{
			Symbols: map[string]JsonSymbol{},
		},
	}
}

func (r *ReportBuilder) SubmitResult(res *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sym := JsonSymbol{
		InitialCapital:   res.InitialCapital.String(),
		FinalCapital:     res.FinalCapital.String(),
		ReturnPct:        res.TotalReturnPct,
		TotalTrades:      res.TotalTrades,
		ProfitableTrades: res.ProfitableTrades,
		AccuracyPct:      res.AccuracyPct,
	}

	for _, rt := range Pair(res.Trades) {
		spend := rt.Buy.Value()
		gain := rt.Sell.Value().Sub(spend)

		pct := 0.0
		if !spend.IsZero() {
			pct, _ = gain.Div(spend).Float64()
		}

		sym.Deals = append(sym.Deals, JsonDeal{
			BuyTime:  rt.Buy.Time,
			SellTime: rt.Sell.Time,
			Spend:    spend.String(),
			Gain:     gain.String(),
			GainPct:  pct,
		})
	}
	r.report.Symbols[res.Symbol] = sym

	r.initial = r.initial.Add(res.InitialCapital)
	r.final = r.final.Add(res.FinalCapital)
	r.report.TotalInitial = r.initial.String()
	r.report.TotalFinal = r.final.String()
	r.report.TotalReturnPct = ReturnPct(r.initial, r.final)

	r.log.Info("backtest finished",
		slog.String("symbol", res.Symbol),
		slog.Float64("return_pct", res.TotalReturnPct),
		slog.Int("trades", res.TotalTrades),
		slog.Float64("accuracy_pct", res.AccuracyPct))
}

func (r *ReportBuilder) SubmitFailure(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.report.Failed = append(r.report.Failed, symbol)
}

func (r *ReportBuilder) Write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(r.report); err != nil {
		return fmt.Errorf("failed to write backtest report: %w", err)
	}

	return nil
}

func (r *ReportBuilder) WriteToFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return r.Write(f)
}
