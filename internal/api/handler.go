package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gamma-omg/stock-analysis/internal/analysis"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const (
	defaultForecastDays   = 30
	defaultForecastDegree = 2
)

type Handler struct {
	log     *slog.Logger
	service *analysis.Service
	capital decimal.Decimal
}

// NewHandler creates a handler that creates portfolios with capital when a
// request does not name one.
func NewHandler(log *slog.Logger, service *analysis.Service, capital float64) *Handler {
	return &Handler{
		log:     log,
		service: service,
		capital: decimal.NewFromFloat(capital),
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]string{"status": "ok"})
}

func (h *Handler) HandleAnalyzeStock(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	start, end, err := market.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.service.AnalyzeSymbol(r.Context(), req.Ticker, start, end)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.jsonResponse(w, newAnalyzeResponse(res))
}

func (h *Handler) HandleBatchAnalysis(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !h.decode(w, r, &req) {
		return
	}

	start, end, err := market.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.fail(w, err)
		return
	}

	symbols, err := h.service.BatchSymbols(req.AnalysisType, req.CustomTickers)
	if err != nil {
		h.fail(w, err)
		return
	}

	sum, err := h.service.BatchAnalyze(r.Context(), symbols, start, end)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.jsonResponse(w, newBatchResponse(sum))
}

func (h *Handler) HandleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req createPortfolioRequest
	if !h.decode(w, r, &req) {
		return
	}

	start, end, err := market.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.fail(w, err)
		return
	}

	capital := h.capital
	if req.InitialCapital != nil {
		capital = *req.InitialCapital
	}

	view, err := h.service.CreatePortfolio(r.Context(), req.Ticker, start, end, capital)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.jsonResponse(w, createPortfolioResponse{
		PortfolioName: view.Portfolio.Name,
		Metrics:       newMetrics(view.Metrics),
		Trades:        newTrades(view.Portfolio.Trades),
	})
}

func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetPortfolio(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, err)
		return
	}

	h.jsonResponse(w, newPortfolioResponse(view))
}

func (h *Handler) HandleAddTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if !h.decode(w, r, &req) {
		return
	}

	name := chi.URLParam(r, "name")
	if _, err := h.service.AddTrade(r.Context(), name, req.Ticker, req.Action, req.Shares, req.Price); err != nil {
		h.fail(w, err)
		return
	}

	h.jsonResponse(w, map[string]string{"message": "Trade added successfully"})
}

func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Days == 0 {
		req.Days = defaultForecastDays
	}
	if req.Degree == 0 {
		req.Degree = defaultForecastDegree
	}

	view, err := h.service.Forecast(r.Context(), req.Ticker, req.Days, req.Degree)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.jsonResponse(w, newForecastResponse(view))
}

func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decode(w, r, &req) {
		return
	}

	start, end, err := market.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.fail(w, err)
		return
	}

	symbols, err := h.service.BatchSymbols("custom", req.Tickers)
	if err != nil {
		h.fail(w, err)
		return
	}

	cmp, err := h.service.Compare(r.Context(), symbols, start, end)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.jsonResponse(w, newCompareResponse(cmp))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.fail(w, fmt.Errorf("%w: malformed request body: %v", market.ErrInvalidInput, err))
		return false
	}
	return true
}

// fail reports err as {"error": msg} with a status derived from its kind.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, market.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, market.ErrInvalidInput), errors.Is(err, market.ErrNoData):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.log.Error("request failed", slog.String("error", err.Error()))
	}
	h.jsonError(w, err.Error(), status)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("failed to write response", slog.String("error", err.Error()))
	}
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
