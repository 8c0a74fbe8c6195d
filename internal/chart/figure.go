package chart

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure stacks plots vertically on a shared time axis. Each plot takes a
// share of the height proportional to its weight.
type Figure struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func NewFigure(w, h int) *Figure {
	return &Figure{w: w, h: h}
}

func (f *Figure) Add(p *plot.Plot, height float64) {
	f.plots = append(f.plots, p)
	f.heights = append(f.heights, height)
}

// WriteTo renders the figure as PNG.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	if len(f.plots) == 0 {
		return 0, errors.New("figure has no plots")
	}

	var axis []*plot.Axis
	for _, p := range f.plots {
		axis = append(axis, &p.X)
	}
	plotext.UniteAxisRanges(axis)

	var total float64
	for _, v := range f.heights {
		total += v
	}

	rows := make([]float64, len(f.heights))
	for i, v := range f.heights {
		rows[i] = v / total
	}

	tbl := plotext.Table{
		RowHeights: rows,
		ColWidths:  []float64{1},
	}

	var plots2d [][]*plot.Plot
	for _, p := range f.plots {
		plots2d = append(plots2d, []*plot.Plot{p})
	}

	img := vgimg.New(vg.Points(float64(f.w)), vg.Points(float64(f.h)))
	dc := draw.New(img)

	canvases := tbl.Align(plots2d, dc)
	for i, p := range f.plots {
		p.Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	n, err := png.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write png: %w", err)
	}
	return n, nil
}

func (f *Figure) Save(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close chart file: %w", cerr))
		}
	}()

	if _, err := f.WriteTo(file); err != nil {
		return fmt.Errorf("failed to write chart to file: %w", err)
	}
	return nil
}
