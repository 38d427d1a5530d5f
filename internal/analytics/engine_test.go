package analytics

import (
	"errors"
	"strings"
	"testing"

	"github.com/Pratik8019/quant-app/internal/model"
)

// oscillatingPair builds 100 bars where leg A alternates 51/49 around 50
// with an upward spike at bar 40 and a downward spike at bar 71, and leg
// B is pinned at 100. With a z window of 10 this produces exactly one
// short and one long round trip.
func oscillatingPair() AlignedPair {
	n := 100
	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			a[i] = 51
		} else {
			a[i] = 49
		}
		b[i] = 100
	}
	a[40] = 56
	a[71] = 44
	return pairOf(a, b)
}

func acceptanceParams() Params {
	p := DefaultParams()
	p.ZWindow = 10
	return p
}

func TestAnalyze_EndToEnd(t *testing.T) {
	pair := oscillatingPair()
	bundle, err := Analyze(pair, model.Interval1m, acceptanceParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bundle.SymbolA != "AAA" || bundle.SymbolB != "BBB" {
		t.Errorf("symbols: got %s/%s", bundle.SymbolA, bundle.SymbolB)
	}
	if !bundle.AsOf.Equal(pair.Times[99]) {
		t.Errorf("as_of: got %v, want last bar time", bundle.AsOf)
	}
	if bundle.Interval != model.Interval1m {
		t.Errorf("interval: got %s", bundle.Interval)
	}

	// Constant leg B forces the mean-ratio fallback: 50/100.
	if bundle.Hedge.Method != model.HedgeRatioFallback {
		t.Fatalf("hedge method: got %s, want fallback", bundle.Hedge.Method)
	}
	if !approx(bundle.Hedge.Ratio, 0.5, 1e-12) {
		t.Errorf("hedge ratio: got %v, want 0.5", bundle.Hedge.Ratio)
	}
	if !bundle.Hedge.ConditionFlag {
		t.Error("expected condition flag")
	}
	foundWarning := false
	for _, w := range bundle.Warnings {
		if strings.Contains(w, "mean price ratio") {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Errorf("fallback warning not propagated: %v", bundle.Warnings)
	}

	// Spread = A - 0.5*B: the alternation around zero plus two spikes.
	for i, want := range map[int]float64{0: 1, 1: -1, 40: 6, 71: -6} {
		got := bundle.Spread[i]
		if !got.Value.Valid || got.Value.Float64 != want {
			t.Errorf("spread[%d]: got %v, want %v", i, got.Value, want)
		}
	}

	// Z-score warms up over the first 9 bars.
	for i := 0; i < 9; i++ {
		if bundle.ZScore[i].Value.Valid {
			t.Errorf("zscore[%d]: expected null during warmup", i)
		}
	}
	zCases := map[int]float64{
		9:  -0.9487,
		40: 2.5310,
		41: -0.6903,
		71: -2.5310,
		72: 0.6903,
	}
	for i, want := range zCases {
		got := bundle.ZScore[i]
		if !got.Value.Valid || !approx(got.Value.Float64, want, 1e-3) {
			t.Errorf("zscore[%d]: got %v, want %v", i, got.Value, want)
		}
	}

	// B never moves, so the rolling correlation is undefined everywhere.
	for i, p := range bundle.Correlation {
		if p.Value.Valid {
			t.Errorf("correlation[%d]: expected null, got %v", i, p.Value.Float64)
		}
	}

	// The spikes mean-revert within one bar; the spread is strongly
	// stationary.
	if !bundle.ADF.Sufficient {
		t.Fatalf("adf: expected sufficient observations (n_obs %d)", bundle.ADF.NObs)
	}
	if !bundle.ADF.IsStationary || bundle.ADF.PValue.Float64 >= 0.05 {
		t.Errorf("adf: expected stationary, got p=%v", bundle.ADF.PValue.Float64)
	}

	bt := bundle.Backtest
	if bt.NumTrades != 2 {
		t.Fatalf("num_trades: got %d, want 2", bt.NumTrades)
	}
	short, long := bt.Trades[0], bt.Trades[1]
	if short.Direction != model.ShortSpread || !short.EntryTime.Equal(pair.Times[40]) || !short.ExitTime.Equal(pair.Times[41]) {
		t.Errorf("short trade: %+v", short)
	}
	if short.EntrySpread != 6 || short.ExitSpread != -1 || short.PnL != 7 {
		t.Errorf("short economics: entry %v exit %v pnl %v", short.EntrySpread, short.ExitSpread, short.PnL)
	}
	if long.Direction != model.LongSpread || !long.EntryTime.Equal(pair.Times[71]) || !long.ExitTime.Equal(pair.Times[72]) {
		t.Errorf("long trade: %+v", long)
	}
	if long.PnL != 7 {
		t.Errorf("long pnl: got %v, want 7", long.PnL)
	}
	if short.Unrealized || long.Unrealized {
		t.Error("both trades closed by signal, not force-close")
	}
	if bt.WinRate != 1 {
		t.Errorf("win_rate: got %v, want 1", bt.WinRate)
	}
	if bt.TotalReturn != 14 {
		t.Errorf("total_return: got %v, want 14", bt.TotalReturn)
	}
	if !bt.Equity[99].Value.Valid || bt.Equity[99].Value.Float64 != 14 {
		t.Errorf("final equity: got %v, want 14", bt.Equity[99].Value)
	}
	if bt.Equity[41].Value.Float64 != 7 {
		t.Errorf("equity after first close: got %v, want 7", bt.Equity[41].Value)
	}

	// Display series are rebased to the first bar.
	if !bundle.NormalizedA[0].Value.Valid || bundle.NormalizedA[0].Value.Float64 != 1 {
		t.Errorf("normalized_a[0]: got %v, want 1", bundle.NormalizedA[0].Value)
	}
	if bundle.NormalizedB[50].Value.Float64 != 1 {
		t.Errorf("normalized_b[50]: got %v, want 1", bundle.NormalizedB[50].Value)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	pair := oscillatingPair()
	p := acceptanceParams()

	b1, err := Analyze(pair, model.Interval1m, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b2, err := Analyze(pair, model.Interval1m, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b1.RunID == b2.RunID {
		t.Error("run IDs must differ between passes")
	}
	if b1.Hedge.Ratio != b2.Hedge.Ratio {
		t.Errorf("hedge ratio differs: %v vs %v", b1.Hedge.Ratio, b2.Hedge.Ratio)
	}
	for i := range b1.ZScore {
		v1, v2 := b1.ZScore[i].Value, b2.ZScore[i].Value
		if v1.Valid != v2.Valid || v1.Float64 != v2.Float64 {
			t.Fatalf("zscore[%d] differs: %v vs %v", i, v1, v2)
		}
	}
	if b1.Backtest.TotalReturn != b2.Backtest.TotalReturn {
		t.Errorf("total_return differs: %v vs %v", b1.Backtest.TotalReturn, b2.Backtest.TotalReturn)
	}
}

func TestAnalyze_RejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.ZWindow = 1

	_, err := Analyze(oscillatingPair(), model.Interval1m, p)
	if err == nil {
		t.Fatal("expected parameter validation error")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
}

func TestAnalyze_EmptyPair(t *testing.T) {
	_, err := Analyze(pairOf(nil, nil), model.Interval1m, DefaultParams())
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	var insErr *InsufficientDataError
	if !errors.As(err, &insErr) {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
}

func TestAnalyze_ReturnsBasisShortensSeries(t *testing.T) {
	n := 40
	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = 100 + float64(i%5)
		b[i] = 200 + 2*float64(i%5)
	}
	p := DefaultParams()
	p.ZWindow = 5
	p.PriceMode = ModeReturns

	bundle, err := Analyze(pairOf(a, b), model.Interval1m, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bundle.Spread) != n-1 {
		t.Errorf("spread length: got %d, want %d", len(bundle.Spread), n-1)
	}
	// Display series keep the raw index.
	if len(bundle.NormalizedA) != n {
		t.Errorf("normalized_a length: got %d, want %d", len(bundle.NormalizedA), n)
	}
	if !bundle.AsOf.Equal(minuteTimes(n)[n-1]) {
		t.Errorf("as_of: got %v, want last bar time", bundle.AsOf)
	}
}
