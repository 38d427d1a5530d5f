package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Pratik8019/quant-app/internal/model"
)

// tickRow is the flexible wire schema of one tick. Feeds disagree on
// field names, so every known alias is accepted.
type tickRow struct {
	Timestamp json.RawMessage  `json:"timestamp"`
	TS        json.RawMessage  `json:"ts"`
	EventTime json.RawMessage  `json:"E"`
	TradeTime json.RawMessage  `json:"T"`
	Price     *decimal.Decimal `json:"price"`
	P         *decimal.Decimal `json:"p"`
	Symbol    string           `json:"symbol"`
	Sym       string           `json:"s"`
	Qty       *decimal.Decimal `json:"qty"`
	Q         *decimal.Decimal `json:"q"`
}

// tick converts the row into a model.Tick. Rows with no usable timestamp,
// no symbol or a non-positive price are rejected.
func (r tickRow) tick() (model.Tick, bool) {
	ts, ok := parseTimestamp(coalesceRaw(r.Timestamp, r.TS, r.EventTime, r.TradeTime))
	if !ok {
		return model.Tick{}, false
	}
	symbol := r.Symbol
	if symbol == "" {
		symbol = r.Sym
	}
	if symbol == "" {
		return model.Tick{}, false
	}
	price := r.Price
	if price == nil {
		price = r.P
	}
	if price == nil || price.Sign() <= 0 {
		return model.Tick{}, false
	}
	qty := r.Qty
	if qty == nil {
		qty = r.Q
	}
	t := model.Tick{Symbol: symbol, Time: ts, Price: *price}
	if qty != nil {
		t.Qty = *qty
	}
	return t, true
}

func coalesceRaw(raws ...json.RawMessage) json.RawMessage {
	for _, r := range raws {
		if len(r) > 0 && string(r) != "null" {
			return r
		}
	}
	return nil
}

// parseTimestamp accepts an integer epoch (unit detected by magnitude:
// seconds, milliseconds, microseconds or nanoseconds), a fractional epoch
// in seconds, or an RFC3339 string.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return epochTime(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), true
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return epochTime(n)
		}
		return time.Time{}, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f <= 0 {
			return time.Time{}, false
		}
		if f < 1e11 {
			sec, frac := int64(f), f-float64(int64(f))
			return time.Unix(sec, int64(frac*1e9)).UTC(), true
		}
		return epochTime(int64(f))
	}
	return time.Time{}, false
}

func epochTime(n int64) (time.Time, bool) {
	if n <= 0 {
		return time.Time{}, false
	}
	var t time.Time
	switch {
	case n < 1e11:
		t = time.Unix(n, 0)
	case n < 1e14:
		t = time.UnixMilli(n)
	case n < 1e17:
		t = time.UnixMicro(n)
	default:
		t = time.Unix(0, n)
	}
	return t.UTC(), true
}

// DecodeTicks reads newline-delimited JSON ticks, returning the usable
// ones plus the count of skipped rows. Blank lines are ignored.
func DecodeTicks(r io.Reader) ([]model.Tick, int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var ticks []model.Tick
	skipped := 0
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var row tickRow
		if err := json.Unmarshal(line, &row); err != nil {
			skipped++
			continue
		}
		t, ok := row.tick()
		if !ok {
			skipped++
			continue
		}
		ticks = append(ticks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scan ticks: %w", err)
	}
	return ticks, skipped, nil
}

// FileSource replays a newline-delimited JSON tick file. The file is
// re-read on every snapshot, so appending to it behaves like a live feed.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Snapshot(ctx context.Context) ([]model.Tick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open tick file: %w", err)
	}
	defer f.Close()

	ticks, skipped, err := DecodeTicks(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if skipped > 0 {
		log.Printf("[WARN] ingest: %s: skipped %d unusable rows", s.path, skipped)
	}
	sort.SliceStable(ticks, func(i, j int) bool { return ticks[i].Time.Before(ticks[j].Time) })
	return ticks, nil
}

func (s *FileSource) Close() error { return nil }
