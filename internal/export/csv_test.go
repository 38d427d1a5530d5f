package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"github.com/Pratik8019/quant-app/internal/analytics"
	"github.com/Pratik8019/quant-app/internal/model"
)

var base = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

func TestWriteSeries_RoundTrip(t *testing.T) {
	pts := []model.SeriesPoint{
		{Time: base, Value: null.FloatFrom(1.0 / 3.0)},
		{Time: base.Add(time.Minute)},
		{Time: base.Add(2 * time.Minute), Value: null.FloatFrom(-2.53)},
	}

	var buf bytes.Buffer
	if err := WriteSeries(&buf, "zscore", pts); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "ts,zscore\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	back, err := ReadSeriesCSV(&buf)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(back) != len(pts) {
		t.Fatalf("round trip length: got %d, want %d", len(back), len(pts))
	}
	for i := range pts {
		if !back[i].Time.Equal(pts[i].Time) {
			t.Errorf("row %d: time %v != %v", i, back[i].Time, pts[i].Time)
		}
		if back[i].Value.Valid != pts[i].Value.Valid {
			t.Errorf("row %d: null flag differs", i)
		}
		if back[i].Value.Valid && back[i].Value.Float64 != pts[i].Value.Float64 {
			t.Errorf("row %d: value %v != %v (must round-trip exactly)", i, back[i].Value.Float64, pts[i].Value.Float64)
		}
	}
}

func TestWriteSeries_NullIsEmptyCell(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSeries(&buf, "spread", []model.SeriesPoint{{Time: base}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], ",") {
		t.Errorf("null value not rendered as empty cell: %q", lines[1])
	}
}

func TestWriteTrades_Rows(t *testing.T) {
	trades := []model.TradeRecord{
		{
			EntryTime:   base,
			ExitTime:    base.Add(time.Minute),
			Direction:   model.ShortSpread,
			EntryZ:      2.531,
			ExitZ:       -0.69,
			EntrySpread: 6,
			ExitSpread:  -1,
			PnL:         7,
		},
		{
			EntryTime:   base.Add(2 * time.Minute),
			ExitTime:    base.Add(3 * time.Minute),
			Direction:   model.LongSpread,
			EntryZ:      -2.531,
			ExitZ:       -1,
			EntrySpread: -6,
			ExitSpread:  -3,
			PnL:         3,
			Unrealized:  true,
		},
	}

	var buf bytes.Buffer
	if err := WriteTrades(&buf, trades); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows: got %d, want header + 2", len(records))
	}
	wantHeader := "entry_ts,exit_ts,direction,entry_z,exit_z,entry_spread,exit_spread,pnl,unrealized"
	if strings.Join(records[0], ",") != wantHeader {
		t.Errorf("header: got %v", records[0])
	}
	if records[1][2] != "SHORT_SPREAD" || records[1][8] != "false" {
		t.Errorf("row 1: %v", records[1])
	}
	if records[2][2] != "LONG_SPREAD" || records[2][8] != "true" {
		t.Errorf("row 2: %v", records[2])
	}
	if records[1][7] != "7" {
		t.Errorf("pnl cell: got %q, want 7", records[1][7])
	}
	if records[1][0] != base.Format(time.RFC3339Nano) {
		t.Errorf("entry_ts cell: got %q", records[1][0])
	}
}

func TestWritePrices_Columns(t *testing.T) {
	pair := analytics.AlignedPair{
		SymbolA: "BTCUSDT",
		SymbolB: "ETHUSDT",
		Times:   []time.Time{base, base.Add(time.Minute)},
		CloseA:  []float64{100.5, 101},
		CloseB:  []float64{2000, 2001.25},
	}

	var buf bytes.Buffer
	if err := WritePrices(&buf, pair); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows: got %d, want 3", len(records))
	}
	if records[0][1] != "BTCUSDT" || records[0][2] != "ETHUSDT" {
		t.Errorf("header: %v", records[0])
	}
	if records[1][1] != "100.5" || records[2][2] != "2001.25" {
		t.Errorf("cells: %v / %v", records[1], records[2])
	}
}

func TestReadSeriesCSV_RejectsBadHeader(t *testing.T) {
	if _, err := ReadSeriesCSV(strings.NewReader("time,value\n")); err == nil {
		t.Fatal("expected header error")
	}
}
