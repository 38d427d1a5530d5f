package analytics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// olsFit holds a least-squares fit of y on the columns of X.
type olsFit struct {
	coef   []float64
	stderr []float64
	rss    float64
	nobs   int
	ncoef  int
}

// fitOLS solves y = X*beta by QR least squares and derives coefficient
// standard errors from sigma^2 * (X'X)^-1. A near-singular system is
// tolerated (gonum reports it as a mat.Condition error while still
// producing a solution); hard failures are returned.
func fitOLS(x *mat.Dense, y []float64) (olsFit, error) {
	n, k := x.Dims()
	if n <= k {
		return olsFit{}, fmt.Errorf("ols: %d observations cannot identify %d coefficients", n, k)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, mat.NewVecDense(n, y)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return olsFit{}, fmt.Errorf("ols: solve: %w", err)
		}
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
	}

	var xtx, inv mat.Dense
	xtx.Mul(x.T(), x)
	if err := inv.Inverse(&xtx); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return olsFit{}, fmt.Errorf("ols: invert normal matrix: %w", err)
		}
	}

	sigma2 := rss / float64(n-k)
	fit := olsFit{
		coef:   make([]float64, k),
		stderr: make([]float64, k),
		rss:    rss,
		nobs:   n,
		ncoef:  k,
	}
	for j := 0; j < k; j++ {
		fit.coef[j] = beta.AtVec(j)
		fit.stderr[j] = math.Sqrt(sigma2 * inv.At(j, j))
	}
	return fit, nil
}

// aic is the Akaike information criterion of the fit under the Gaussian
// likelihood, the quantity minimized by automatic lag selection.
func (f olsFit) aic() float64 {
	n := float64(f.nobs)
	llf := -n / 2 * (math.Log(2*math.Pi) + math.Log(f.rss/n) + 1)
	return -2*llf + 2*float64(f.ncoef)
}
