package chart

import (
	"fmt"
	"image/color"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/backtest"
	"github.com/gamma-omg/stock-analysis/internal/forecast"
	"github.com/gamma-omg/stock-analysis/internal/indicator"
	"github.com/gamma-omg/stock-analysis/internal/market"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	Width  = 1200
	Height = 900
)

var (
	colorPrice  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorBand   = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	colorMid    = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorBuy    = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorSell   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorEquity = color.RGBA{R: 148, G: 103, B: 189, A: 255}
)

var timeTicks = plot.TimeTicks{Format: "2006-01-02"}

// Analysis draws close with Bollinger Bands and trade markers, RSI with its
// 30/70 thresholds, and the backtest equity curve.
func Analysis(f *indicator.Frame, r *backtest.Result) (*Figure, error) {
	if f == nil || r == nil || f.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to draw", market.ErrInvalidInput)
	}

	times := barTimes(f.Series)
	fig := NewFigure(Width, Height)

	price := newPlot(f.Series.Symbol, "Price")
	if err := addLine(price, "Close", times, closeValues(f.Series), colorPrice, false); err != nil {
		return nil, err
	}
	if err := addLine(price, "BB upper", times, f.BBUpper, colorBand, true); err != nil {
		return nil, err
	}
	if err := addLine(price, "BB mid", times, f.BBMid, colorMid, true); err != nil {
		return nil, err
	}
	if err := addLine(price, "BB lower", times, f.BBLower, colorBand, true); err != nil {
		return nil, err
	}
	if err := addTrades(price, r.Trades); err != nil {
		return nil, err
	}
	fig.Add(price, 3)

	rsi := newPlot("RSI", "RSI")
	if err := addLine(rsi, "RSI", times, f.RSI, colorPrice, false); err != nil {
		return nil, err
	}
	rsi.Y.Min, rsi.Y.Max = 0, 100
	for _, level := range []float64{30, 70} {
		l, err := plotter.NewLine(plotter.XYs{{X: unix(times[0]), Y: level}, {X: unix(times[len(times)-1]), Y: level}})
		if err != nil {
			return nil, fmt.Errorf("failed to create rsi threshold: %w", err)
		}
		l.Color = colorBand
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		rsi.Add(l)
	}
	fig.Add(rsi, 1)

	equity := newPlot("Equity", "Capital")
	eq := make([]indicator.Value, len(r.EquityCurve))
	for i, v := range r.EquityCurve {
		fv, _ := v.Float64()
		eq[i] = indicator.Some(fv)
	}
	if err := addLine(equity, "Equity", times, eq, colorEquity, false); err != nil {
		return nil, err
	}
	fig.Add(equity, 1)

	return fig, nil
}

// Forecast draws the history with its fitted trend and the projection with
// its band.
func Forecast(s market.Series, res *forecast.Result) (*Figure, error) {
	if res == nil || s.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to draw", market.ErrInvalidInput)
	}

	times := barTimes(s)
	p := newPlot(s.Symbol+" forecast", "Price")

	if err := addLine(p, "Close", times, closeValues(s), colorPrice, false); err != nil {
		return nil, err
	}
	if err := addLine(p, "Trend", times, someValues(res.Fitted), colorMid, true); err != nil {
		return nil, err
	}
	if err := addLine(p, "Forecast", res.Dates, someValues(res.Forecast), colorSell, false); err != nil {
		return nil, err
	}
	if err := addLine(p, "Upper", res.Dates, someValues(res.Upper), colorBand, true); err != nil {
		return nil, err
	}
	if err := addLine(p, "Lower", res.Dates, someValues(res.Lower), colorBand, true); err != nil {
		return nil, err
	}

	fig := NewFigure(Width, Height/2)
	fig.Add(p, 1)
	return fig, nil
}

func newPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.X.Tick.Marker = timeTicks
	p.Legend.Top = true
	return p
}

// addLine plots the defined values only. A channel without any value adds
// nothing.
func addLine(p *plot.Plot, name string, times []time.Time, vals []indicator.Value, c color.Color, dashed bool) error {
	var pts plotter.XYs
	for i, v := range vals {
		if v.Valid && i < len(times) {
			pts = append(pts, plotter.XY{X: unix(times[i]), Y: v.Float})
		}
	}
	if len(pts) == 0 {
		return nil
	}

	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to create %s line: %w", name, err)
	}
	l.Color = c
	if dashed {
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}

	p.Add(l)
	p.Legend.Add(name, l)
	return nil
}

func addTrades(p *plot.Plot, trades []market.Trade) error {
	var buys, sells plotter.XYs
	for _, t := range trades {
		price, _ := t.Price.Float64()
		pt := plotter.XY{X: unix(t.Time), Y: price}
		if t.Side == market.SideBuy {
			buys = append(buys, pt)
		} else {
			sells = append(sells, pt)
		}
	}

	for _, m := range []struct {
		name  string
		pts   plotter.XYs
		color color.Color
		shape draw.GlyphDrawer
	}{
		{"Buy", buys, colorBuy, draw.TriangleGlyph{}},
		{"Sell", sells, colorSell, draw.CrossGlyph{}},
	} {
		if len(m.pts) == 0 {
			continue
		}

		s, err := plotter.NewScatter(m.pts)
		if err != nil {
			return fmt.Errorf("failed to create %s markers: %w", m.name, err)
		}
		s.GlyphStyle.Color = m.color
		s.GlyphStyle.Shape = m.shape
		s.GlyphStyle.Radius = vg.Points(4)

		p.Add(s)
		p.Legend.Add(m.name, s)
	}
	return nil
}

func barTimes(s market.Series) []time.Time {
	out := make([]time.Time, s.Len())
	for i, b := range s.Bars {
		out[i] = b.Time
	}
	return out
}

func closeValues(s market.Series) []indicator.Value {
	out := make([]indicator.Value, s.Len())
	for i, c := range s.Closes() {
		out[i] = indicator.Some(c)
	}
	return out
}

func someValues(vs []float64) []indicator.Value {
	out := make([]indicator.Value, len(vs))
	for i, v := range vs {
		out[i] = indicator.Some(v)
	}
	return out
}

func unix(t time.Time) float64 {
	return float64(t.Unix())
}
