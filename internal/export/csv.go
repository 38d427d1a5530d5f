package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/guregu/null/v6"

	"github.com/Pratik8019/quant-app/internal/analytics"
	"github.com/Pratik8019/quant-app/internal/model"
)

// formatFloat renders a value exactly: parsing the output returns the
// same float64.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// WriteSeries writes one timestamped series as CSV with header
// "ts,<name>". Null values become empty cells.
func WriteSeries(w io.Writer, name string, pts []model.SeriesPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ts", name}); err != nil {
		return err
	}
	for _, p := range pts {
		val := ""
		if p.Value.Valid {
			val = formatFloat(p.Value.Float64)
		}
		if err := cw.Write([]string{formatTime(p.Time), val}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrades writes the backtest trade log as CSV.
func WriteTrades(w io.Writer, trades []model.TradeRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"entry_ts", "exit_ts", "direction", "entry_z", "exit_z", "entry_spread", "exit_spread", "pnl", "unrealized"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			formatTime(t.EntryTime),
			formatTime(t.ExitTime),
			string(t.Direction),
			formatFloat(t.EntryZ),
			formatFloat(t.ExitZ),
			formatFloat(t.EntrySpread),
			formatFloat(t.ExitSpread),
			formatFloat(t.PnL),
			strconv.FormatBool(t.Unrealized),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePrices writes the aligned close prices of both legs, one column
// per symbol.
func WritePrices(w io.Writer, pair analytics.AlignedPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ts", pair.SymbolA, pair.SymbolB}); err != nil {
		return err
	}
	for i := range pair.Times {
		row := []string{
			formatTime(pair.Times[i]),
			formatFloat(pair.CloseA[i]),
			formatFloat(pair.CloseB[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSeriesCSV parses a file written by WriteSeries back into points.
func ReadSeriesCSV(r io.Reader) ([]model.SeriesPoint, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != 2 || header[0] != "ts" {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var pts []model.SeriesPoint
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(pts)+2, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse ts: %w", len(pts)+2, err)
		}
		pt := model.SeriesPoint{Time: ts}
		if rec[1] != "" {
			v, err := strconv.ParseFloat(rec[1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: parse value: %w", len(pts)+2, err)
			}
			pt.Value = null.FloatFrom(v)
		}
		pts = append(pts, pt)
	}
	return pts, nil
}
