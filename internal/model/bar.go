package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tick is a single trade observation for one symbol.
type Tick struct {
	Symbol string
	Time   time.Time
	Price  decimal.Decimal
	Qty    decimal.Decimal
}

// Interval is a bar aggregation period.
type Interval string

const (
	Interval1s Interval = "1s"
	Interval1m Interval = "1m"
	Interval5m Interval = "5m"
)

// Duration returns the bucket width of the interval.
func (iv Interval) Duration() (time.Duration, error) {
	switch iv {
	case Interval1s:
		return time.Second, nil
	case Interval1m:
		return time.Minute, nil
	case Interval5m:
		return 5 * time.Minute, nil
	}
	return 0, fmt.Errorf("unsupported interval %q", string(iv))
}

// Bar is a single OHLCV candle.
type Bar struct {
	Time   time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// BarSeries holds the resampled bars of one symbol, ascending by time.
type BarSeries struct {
	Symbol   string   `json:"symbol"`
	Interval Interval `json:"interval"`
	Bars     []Bar    `json:"bars"`
}

// Closes returns the close prices in series order.
func (s BarSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}
