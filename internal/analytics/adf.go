package analytics

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Pratik8019/quant-app/internal/model"
)

// MacKinnon (1994) approximate asymptotic p-value surface for the
// Dickey-Fuller distribution, constant-only regression, one unit root.
var (
	adfTauMax  = 2.74
	adfTauMin  = -18.83
	adfTauStar = -1.61
	adfSmallP  = [...]float64{2.1659, 1.4412, 0.038269}
	adfLargeP  = [...]float64{1.7339, 0.93202, -0.12745, -0.010368}
)

// MacKinnon (2010) response-surface coefficients for finite-sample
// critical values, constant-only regression.
var adfCritCoef = map[string][4]float64{
	"1%":  {-3.43035, -6.5393, -16.786, -79.433},
	"5%":  {-2.86154, -2.8903, -4.234, -40.040},
	"10%": {-2.56677, -1.5384, -2.809, 0},
}

// ADFTest runs an augmented Dickey-Fuller test (regression with constant,
// no trend) on the defined spread values. The lag order is chosen by
// minimizing AIC over 0..maxlag with every candidate fitted on the same
// trimmed sample, then the chosen order is refitted on the full usable
// sample. Too few observations or a failed regression yield a structured
// insufficient result, never an error.
func ADFTest(spread []model.SeriesPoint, p Params) (model.ADFResult, []string) {
	xs := make([]float64, 0, len(spread))
	for _, pt := range spread {
		if pt.Value.Valid {
			xs = append(xs, pt.Value.Float64)
		}
	}
	n := len(xs)
	if n < p.ADFMinObs {
		warn := (&InsufficientDataError{Op: "adf", Need: p.ADFMinObs, Got: n}).Error()
		return model.ADFResult{NObs: n}, []string{warn}
	}

	// Schwert rule, capped so the trimmed regression keeps more rows
	// than coefficients. An explicit adf_max_lag is capped the same way.
	maxlag := int(math.Floor(12 * math.Pow(float64(n)/100, 0.25)))
	if p.ADFMaxLag >= 0 {
		maxlag = p.ADFMaxLag
	}
	if limit := n/2 - 2; maxlag > limit {
		maxlag = limit
	}
	if maxlag < 0 {
		maxlag = 0
	}

	diff := make([]float64, n-1)
	for i := range diff {
		diff[i] = xs[i+1] - xs[i]
	}

	// Lag selection on the common trimmed sample. Ties go to the
	// smallest lag.
	bestLag := 0
	bestAIC := math.Inf(1)
	for lag := 0; lag <= maxlag; lag++ {
		x, y := adfDesign(xs, diff, maxlag, lag)
		fit, err := fitOLS(x, y)
		if err != nil {
			return adfDegenerate(n, fmt.Sprintf("adf: lag selection at lag %d: %v", lag, err))
		}
		if aic := fit.aic(); aic < bestAIC {
			bestAIC = aic
			bestLag = lag
		}
	}

	// Refit the chosen order on the full usable sample.
	x, y := adfDesign(xs, diff, bestLag, bestLag)
	fit, err := fitOLS(x, y)
	if err != nil {
		return adfDegenerate(n, fmt.Sprintf("adf: final regression: %v", err))
	}
	tstat := fit.coef[1] / fit.stderr[1]
	if !finite(tstat) {
		return adfDegenerate(n, "adf: degenerate level coefficient t-ratio")
	}

	crit := make(map[string]float64, len(adfCritCoef))
	ni := 1 / float64(fit.nobs)
	for level, c := range adfCritCoef {
		crit[level] = c[0] + c[1]*ni + c[2]*ni*ni + c[3]*ni*ni*ni
	}
	pval := mackinnonP(tstat)

	return model.ADFResult{
		Statistic:      null.FloatFrom(tstat),
		PValue:         null.FloatFrom(pval),
		UsedLags:       bestLag,
		NObs:           fit.nobs,
		CriticalValues: crit,
		IsStationary:   pval < p.SignificanceLevel,
		Sufficient:     true,
	}, nil
}

// adfDesign builds the regression of diff[t] on
// [const, level[t], diff[t-1..t-lag]] with rows t = trim..len(diff)-1.
func adfDesign(xs, diff []float64, trim, lag int) (*mat.Dense, []float64) {
	rows := len(diff) - trim
	x := mat.NewDense(rows, 2+lag, nil)
	y := make([]float64, rows)
	for r := 0; r < rows; r++ {
		t := trim + r
		x.Set(r, 0, 1)
		x.Set(r, 1, xs[t])
		for j := 1; j <= lag; j++ {
			x.Set(r, 1+j, diff[t-j])
		}
		y[r] = diff[t]
	}
	return x, y
}

func adfDegenerate(n int, warn string) (model.ADFResult, []string) {
	return model.ADFResult{NObs: n}, []string{warn}
}

// mackinnonP maps the test statistic to an approximate asymptotic p-value
// through the regression surface and the standard normal CDF.
func mackinnonP(tstat float64) float64 {
	switch {
	case tstat > adfTauMax:
		return 1.0
	case tstat < adfTauMin:
		return 0.0
	}
	var v float64
	if tstat <= adfTauStar {
		v = adfSmallP[0] + adfSmallP[1]*tstat + adfSmallP[2]*tstat*tstat
	} else {
		v = adfLargeP[0] + adfLargeP[1]*tstat + adfLargeP[2]*tstat*tstat + adfLargeP[3]*tstat*tstat*tstat
	}
	return distuv.Normal{Mu: 0, Sigma: 1}.CDF(v)
}
