package csvfile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gamma-omg/stock-analysis/internal/market"
	"github.com/shopspring/decimal"
)

type barFilter func(b market.Bar) bool

type column int

const (
	colTime column = iota
	colOpen
	colHigh
	colLow
	colClose
	colVolume
	colCount
)

var columnNames = map[string]column{
	"timestamp": colTime,
	"date":      colTime,
	"open":      colOpen,
	"high":      colHigh,
	"low":       colLow,
	"close":     colClose,
	"volume":    colVolume,
}

// readBars parses a bar file with a header row. The time column holds either
// unix seconds or YYYY-MM-DD dates; close is the only price column required.
func readBars(path string, filter barFilter) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open bar file: %w", err)
	}
	defer f.Close()

	return parseBars(bufio.NewReader(f), filter)
}

func parseBars(r io.Reader, filter barFilter) ([]market.Bar, error) {
	rdr := csv.NewReader(r)
	header, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	idx := make([]int, colCount)
	for i := range idx {
		idx[i] = -1
	}
	for i, name := range header {
		if c, ok := columnNames[strings.ToLower(strings.TrimSpace(name))]; ok {
			idx[c] = i
		}
	}
	if idx[colTime] < 0 || idx[colClose] < 0 {
		return nil, fmt.Errorf("%w: bar file needs time and close columns", market.ErrInvalidInput)
	}

	var bars []market.Bar
	for line := 2; ; line++ {
		data, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bar data: %w", err)
		}

		bar, err := parseRow(data, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if filter(bar) {
			bars = append(bars, bar)
		}
	}

	return bars, nil
}

func parseRow(data []string, idx []int) (bar market.Bar, err error) {
	bar.Time, err = parseTime(data[idx[colTime]])
	if err != nil {
		return
	}

	fields := []struct {
		col  column
		dst  *decimal.Decimal
		name string
	}{
		{colOpen, &bar.Open, "open"},
		{colHigh, &bar.High, "high"},
		{colLow, &bar.Low, "low"},
		{colClose, &bar.Close, "close"},
		{colVolume, &bar.Volume, "volume"},
	}

	for _, fld := range fields {
		i := idx[fld.col]
		if i < 0 {
			continue
		}

		raw := strings.TrimSpace(data[i])
		if raw == "" && fld.col == colClose {
			err = fmt.Errorf("%w: missing close price", market.ErrInvalidInput)
			return
		}
		if raw == "" {
			continue
		}

		*fld.dst, err = decimal.NewFromString(raw)
		if err != nil {
			err = fmt.Errorf("failed to read %s price: %w", fld.name, err)
			return
		}
	}

	return
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Unix(int64(ts), 0).UTC(), nil
	}

	ts, err := time.Parse(market.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse bar time %q: %w", raw, err)
	}
	return ts, nil
}
