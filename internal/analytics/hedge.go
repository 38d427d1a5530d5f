package analytics

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Pratik8019/quant-app/internal/model"
)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// EstimateHedgeRatio fits closeA = intercept + ratio*closeB over the
// lookback window (0 = whole series). Degenerate regressions fall back to
// the ratio of mean prices with ConditionFlag set; the returned warnings
// describe every fallback taken. An empty window is the only error case.
func EstimateHedgeRatio(pair AlignedPair, p Params) (model.HedgeRatioResult, []string, error) {
	a, b := pair.CloseA, pair.CloseB
	if p.LookbackWindow > 0 && p.LookbackWindow < len(a) {
		a = a[len(a)-p.LookbackWindow:]
		b = b[len(b)-p.LookbackWindow:]
	}
	if len(a) < 1 {
		return model.HedgeRatioResult{}, nil, &InsufficientDataError{Op: "hedge ratio", Need: 1, Got: 0}
	}

	if len(a) < 2 {
		return fallbackRatio(a, b, "fewer than 2 observations")
	}
	if v := stat.PopVariance(b, nil); v < p.MinVarianceEps {
		return fallbackRatio(a, b, fmt.Sprintf("%s variance %.3g below %g", pair.SymbolB, v, p.MinVarianceEps))
	}

	design := mat.NewDense(len(b), 2, nil)
	for i, v := range b {
		design.Set(i, 0, 1)
		design.Set(i, 1, v)
	}
	if cond := mat.Cond(design, 2); cond > p.CondNumberMax {
		return fallbackRatio(a, b, fmt.Sprintf("design matrix condition number %.3g above %g", cond, p.CondNumberMax))
	}

	alpha, beta := stat.LinearRegression(b, a, nil, false)
	r2 := stat.RSquared(b, a, nil, alpha, beta)
	if !finite(beta) || !finite(r2) {
		return fallbackRatio(a, b, "regression produced non-finite estimates")
	}

	return model.HedgeRatioResult{
		Ratio:     beta,
		Method:    model.HedgeOLS,
		Intercept: null.FloatFrom(alpha),
		RSquared:  null.FloatFrom(r2),
	}, nil, nil
}

// fallbackRatio estimates the hedge ratio as mean(a)/mean(b). Division
// follows IEEE-754 and never raises; intercept and r_squared stay null.
func fallbackRatio(a, b []float64, reason string) (model.HedgeRatioResult, []string, error) {
	warn := fmt.Sprintf("numeric degeneracy in hedge estimation (%s); using mean price ratio", reason)
	return model.HedgeRatioResult{
		Ratio:         stat.Mean(a, nil) / stat.Mean(b, nil),
		Method:        model.HedgeRatioFallback,
		ConditionFlag: true,
	}, []string{warn}, nil
}
