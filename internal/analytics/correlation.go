package analytics

import (
	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	"github.com/Pratik8019/quant-app/internal/model"
)

// RollingCorrelation computes the Pearson correlation of the two legs
// over a trailing window of exactly `window` points including t. Points
// are null during warmup and when either leg has zero variance in the
// window; a NaN from the computation is reported as null.
func RollingCorrelation(pair AlignedPair, window int) []model.SeriesPoint {
	out := make([]model.SeriesPoint, pair.Len())
	for t := range out {
		out[t] = model.SeriesPoint{Time: pair.Times[t]}
		if t < window-1 {
			continue
		}
		wa := pair.CloseA[t-window+1 : t+1]
		wb := pair.CloseB[t-window+1 : t+1]
		if stat.PopVariance(wa, nil) == 0 || stat.PopVariance(wb, nil) == 0 {
			continue
		}
		rho := stat.Correlation(wa, wb, nil)
		if !finite(rho) {
			continue
		}
		// Guard against floating-point drift just outside [-1, 1].
		if rho > 1 {
			rho = 1
		} else if rho < -1 {
			rho = -1
		}
		out[t].Value = null.FloatFrom(rho)
	}
	return out
}
