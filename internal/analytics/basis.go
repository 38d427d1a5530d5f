package analytics

import (
	"math"
	"time"

	"github.com/guregu/null/v6"

	"github.com/Pratik8019/quant-app/internal/model"
)

// applyBasis transforms the aligned closes per the configured price mode.
// The mode has already been validated. Division follows IEEE-754; any
// non-finite values this produces are absorbed by the null handling of
// the downstream stages.
func applyBasis(pair AlignedPair, mode PriceMode) AlignedPair {
	switch mode {
	case ModeNormalized:
		out := AlignedPair{SymbolA: pair.SymbolA, SymbolB: pair.SymbolB, Times: pair.Times}
		if pair.Len() == 0 {
			return out
		}
		firstA, firstB := pair.CloseA[0], pair.CloseB[0]
		out.CloseA = make([]float64, pair.Len())
		out.CloseB = make([]float64, pair.Len())
		for i := range pair.Times {
			out.CloseA[i] = pair.CloseA[i] / firstA
			out.CloseB[i] = pair.CloseB[i] / firstB
		}
		return out

	case ModeReturns:
		out := AlignedPair{SymbolA: pair.SymbolA, SymbolB: pair.SymbolB}
		if pair.Len() < 2 {
			return out
		}
		n := pair.Len() - 1
		out.Times = make([]time.Time, n)
		out.CloseA = make([]float64, n)
		out.CloseB = make([]float64, n)
		for i := 0; i < n; i++ {
			out.Times[i] = pair.Times[i+1]
			out.CloseA[i] = pair.CloseA[i+1]/pair.CloseA[i] - 1
			out.CloseB[i] = pair.CloseB[i+1]/pair.CloseB[i] - 1
		}
		return out
	}

	return pair
}

// normalizedPoints returns the series divided by its first value, for
// display alongside the analysis output. Non-finite results become null.
func normalizedPoints(times []time.Time, closes []float64) []model.SeriesPoint {
	out := make([]model.SeriesPoint, len(times))
	var first float64
	if len(closes) > 0 {
		first = closes[0]
	}
	for i := range times {
		out[i] = model.SeriesPoint{Time: times[i]}
		v := closes[i] / first
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i].Value = null.FloatFrom(v)
		}
	}
	return out
}
