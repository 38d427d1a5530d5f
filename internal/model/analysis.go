package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
)

// HedgeMethod identifies how the hedge ratio was estimated.
type HedgeMethod string

const (
	HedgeOLS           HedgeMethod = "OLS"
	HedgeRatioFallback HedgeMethod = "RATIO_FALLBACK"
)

// HedgeRatioResult is the estimated linear relationship between the legs.
// Intercept and RSquared are null when the mean-ratio fallback was used.
type HedgeRatioResult struct {
	Ratio         float64     `json:"ratio"`
	Method        HedgeMethod `json:"method"`
	Intercept     null.Float  `json:"intercept"`
	RSquared      null.Float  `json:"r_squared"`
	ConditionFlag bool        `json:"condition_flag"`
}

// SeriesPoint is one timestamped value of a derived series. Value is null
// where the point is undefined (window warmup, zero variance, non-finite
// arithmetic).
type SeriesPoint struct {
	Time  time.Time  `json:"ts"`
	Value null.Float `json:"value"`
}

// ADFResult is the outcome of the augmented Dickey-Fuller test on the
// spread. Sufficient is false when too few usable observations exist; the
// statistic and p-value are null in that case.
type ADFResult struct {
	Statistic      null.Float         `json:"statistic"`
	PValue         null.Float         `json:"p_value"`
	UsedLags       int                `json:"used_lags"`
	NObs           int                `json:"n_obs"`
	CriticalValues map[string]float64 `json:"critical_values"`
	IsStationary   bool               `json:"is_stationary"`
	Sufficient     bool               `json:"sufficient"`
}

// Direction of a spread position.
type Direction string

const (
	LongSpread  Direction = "LONG_SPREAD"
	ShortSpread Direction = "SHORT_SPREAD"
)

// TradeRecord is one round trip of the backtest. Unrealized marks the
// forced close of a position still open at the end of the series.
type TradeRecord struct {
	EntryTime   time.Time `json:"entry_ts"`
	ExitTime    time.Time `json:"exit_ts"`
	Direction   Direction `json:"direction"`
	EntryZ      float64   `json:"entry_z"`
	ExitZ       float64   `json:"exit_z"`
	EntrySpread float64   `json:"entry_spread"`
	ExitSpread  float64   `json:"exit_spread"`
	PnL         float64   `json:"pnl"`
	Unrealized  bool      `json:"unrealized"`
}

// BacktestResult summarizes the threshold replay. NumTrades and WinRate
// count closed trades only.
type BacktestResult struct {
	Trades      []TradeRecord `json:"trades"`
	Equity      []SeriesPoint `json:"equity"`
	TotalReturn float64       `json:"total_return"`
	NumTrades   int           `json:"num_trades"`
	WinRate     float64       `json:"win_rate"`
}

// AnalysisBundle is the immutable product of one analysis pass. It is
// never mutated after construction; readers always see a complete bundle.
type AnalysisBundle struct {
	RunID       uuid.UUID        `json:"run_id"`
	SymbolA     string           `json:"symbol_a"`
	SymbolB     string           `json:"symbol_b"`
	Interval    Interval         `json:"interval"`
	AsOf        time.Time        `json:"as_of"`
	Hedge       HedgeRatioResult `json:"hedge"`
	Spread      []SeriesPoint    `json:"spread"`
	ZScore      []SeriesPoint    `json:"zscore"`
	Correlation []SeriesPoint    `json:"correlation"`
	NormalizedA []SeriesPoint    `json:"normalized_a"`
	NormalizedB []SeriesPoint    `json:"normalized_b"`
	ADF         ADFResult        `json:"adf"`
	Backtest    BacktestResult   `json:"backtest"`
	Warnings    []string         `json:"warnings"`
}

// LatestZ returns the most recent defined z-score point.
func (b *AnalysisBundle) LatestZ() (SeriesPoint, bool) {
	for i := len(b.ZScore) - 1; i >= 0; i-- {
		if b.ZScore[i].Value.Valid {
			return b.ZScore[i], true
		}
	}
	return SeriesPoint{}, false
}
