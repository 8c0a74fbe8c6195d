package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

const defaultBaseUrl = "https://query1.finance.yahoo.com"

// Fetcher reads daily bars from the Yahoo Finance chart API. Requests pass
// through a circuit breaker so a failing upstream stops being hammered by
// batch fetches.
type Fetcher struct {
	log     *slog.Logger
	baseUrl string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func New(log *slog.Logger, cfg config.Yahoo) *Fetcher {
	baseUrl := cfg.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	f := &Fetcher{
		log:     log,
		baseUrl: baseUrl,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}

	f.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "yahoo",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errClient)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return f
}

var errClient = errors.New("yahoo rejected the request")

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *Fetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) (market.Series, error) {
	symbol, err := market.NormalizeSymbol(symbol)
	if err != nil {
		return market.Series{}, err
	}
	if err := market.CheckRange(start, end); err != nil {
		return market.Series{}, err
	}

	body, err := f.breaker.Execute(func() ([]byte, error) {
		return f.get(ctx, symbol, start, end)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return market.Series{}, fmt.Errorf("yahoo unavailable for %s: %w", symbol, err)
	}
	if err != nil {
		return market.Series{}, err
	}

	bars, err := parseChart(body)
	if err != nil {
		return market.Series{}, fmt.Errorf("failed to parse %s bars: %w", symbol, err)
	}
	if len(bars) == 0 {
		return market.Series{}, fmt.Errorf("%w: no data found for %s between %s and %s",
			market.ErrNoData, symbol, start.Format(market.DateLayout), end.Format(market.DateLayout))
	}

	f.log.Debug("bars fetched", slog.String("symbol", symbol), slog.Int("count", len(bars)))
	return market.NewSeries(symbol, bars), nil
}

func (f *Fetcher) get(ctx context.Context, symbol string, start, end time.Time) ([]byte, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.baseUrl, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build yahoo request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from yahoo: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w: unknown symbol %s", errClient, market.ErrNoData, symbol)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: status %d for %s", errClient, resp.StatusCode, symbol)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("yahoo returned status %d for %s", resp.StatusCode, symbol)
	}

	return body, nil
}

func parseChart(body []byte) ([]market.Bar, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]market.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		// holidays and halted sessions come back as null rows
		if c == nil {
			continue
		}

		bars = append(bars, market.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   toDecimal(at(quote.Open, i)),
			High:   toDecimal(at(quote.High, i)),
			Low:    toDecimal(at(quote.Low, i)),
			Close:  decimal.NewFromFloat(*c),
			Volume: toDecimal(at(quote.Volume, i)),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	// the live session is sometimes repeated as a trailing bar
	uniq := bars[:0]
	for _, b := range bars {
		if len(uniq) > 0 && b.Time.Equal(uniq[len(uniq)-1].Time) {
			uniq[len(uniq)-1] = b
			continue
		}
		uniq = append(uniq, b)
	}
	return uniq, nil
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

func toDecimal(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}
