package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gamma-omg/stock-analysis/internal/market"
)

var dumpHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

// Dump writes bars in the format the Fetcher reads back. The header is
// written once, ahead of the first row.
type Dump struct {
	w         *csv.Writer
	hasHeader bool
}

func NewDump(w io.Writer) *Dump {
	return &Dump{w: csv.NewWriter(w)}
}

// Dump writes a single bar and flushes it.
func (d *Dump) Dump(bar market.Bar) error {
	if err := d.writeBar(bar); err != nil {
		return err
	}
	return d.flush()
}

// DumpSeries writes every bar of s with a single flush at the end. An empty
// series still gets the header.
func (d *Dump) DumpSeries(s market.Series) error {
	if err := d.writeHeader(); err != nil {
		return err
	}
	for _, b := range s.Bars {
		if err := d.writeBar(b); err != nil {
			return err
		}
	}
	return d.flush()
}

func (d *Dump) writeHeader() error {
	if d.hasHeader {
		return nil
	}
	if err := d.w.Write(dumpHeader); err != nil {
		return fmt.Errorf("failed to write bars dump csv header: %w", err)
	}
	d.hasHeader = true
	return nil
}

func (d *Dump) writeBar(bar market.Bar) error {
	if err := d.writeHeader(); err != nil {
		return err
	}

	err := d.w.Write([]string{
		strconv.FormatInt(bar.Time.Unix(), 10),
		bar.Open.String(),
		bar.High.String(),
		bar.Low.String(),
		bar.Close.String(),
		bar.Volume.String()})
	if err != nil {
		return fmt.Errorf("failed to dump bar: %w", err)
	}
	return nil
}

func (d *Dump) flush() error {
	d.w.Flush()
	if err := d.w.Error(); err != nil {
		return fmt.Errorf("failed to flush bars dump: %w", err)
	}
	return nil
}
