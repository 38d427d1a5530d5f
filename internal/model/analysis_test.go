package model

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"
)

func TestLatestZ(t *testing.T) {
	base := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	b := &AnalysisBundle{}
	if _, ok := b.LatestZ(); ok {
		t.Error("empty series must have no latest z")
	}

	b.ZScore = []SeriesPoint{{Time: base}, {Time: base.Add(time.Minute)}}
	if _, ok := b.LatestZ(); ok {
		t.Error("all-null series must have no latest z")
	}

	// The trailing null is skipped; the last defined point wins.
	b.ZScore = []SeriesPoint{
		{Time: base, Value: null.FloatFrom(1.1)},
		{Time: base.Add(time.Minute), Value: null.FloatFrom(-2.2)},
		{Time: base.Add(2 * time.Minute)},
	}
	pt, ok := b.LatestZ()
	if !ok {
		t.Fatal("expected a latest z")
	}
	if pt.Value.Float64 != -2.2 || !pt.Time.Equal(base.Add(time.Minute)) {
		t.Errorf("latest z: got %+v", pt)
	}
}

func TestInterval_Duration(t *testing.T) {
	tests := []struct {
		iv   Interval
		want time.Duration
		ok   bool
	}{
		{Interval1s, time.Second, true},
		{Interval1m, time.Minute, true},
		{Interval5m, 5 * time.Minute, true},
		{Interval("2h"), 0, false},
		{Interval(""), 0, false},
	}
	for _, tt := range tests {
		got, err := tt.iv.Duration()
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("%q: got (%v, %v), want %v", tt.iv, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("%q: expected error", tt.iv)
		}
	}
}

func TestBarSeries_Closes(t *testing.T) {
	s := BarSeries{Bars: []Bar{{Close: 1.5}, {Close: 2.5}}}
	closes := s.Closes()
	if len(closes) != 2 || closes[0] != 1.5 || closes[1] != 2.5 {
		t.Errorf("closes: %v", closes)
	}
}
