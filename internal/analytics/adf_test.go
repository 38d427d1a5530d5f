package analytics

import (
	"math"
	"strings"
	"testing"
)

// hashNoise is a deterministic stand-in for white noise in [-0.5, 0.5).
func hashNoise(i int) float64 {
	v := math.Sin(float64(i)*12.9898) * 43758.5453
	return v - math.Floor(v) - 0.5
}

func TestADFTest_StationaryAR1(t *testing.T) {
	n := 200
	xs := make([]float64, n)
	for i := 1; i < n; i++ {
		xs[i] = 0.5*xs[i-1] + hashNoise(i)
	}

	res, warnings := ADFTest(pts(xs...), DefaultParams())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if !res.Sufficient {
		t.Fatal("expected sufficient observations")
	}
	if !res.Statistic.Valid || !res.PValue.Valid {
		t.Fatal("expected defined statistic and p-value")
	}
	if res.Statistic.Float64 >= 0 {
		t.Errorf("expected a negative statistic for a mean-reverting series, got %v", res.Statistic.Float64)
	}
	if res.PValue.Float64 >= 0.05 {
		t.Errorf("p-value: got %v, want < 0.05", res.PValue.Float64)
	}
	if !res.IsStationary {
		t.Error("expected stationary verdict")
	}
	if res.NObs <= 0 {
		t.Errorf("n_obs not populated: %d", res.NObs)
	}
	if res.CriticalValues["1%"] >= res.CriticalValues["5%"] || res.CriticalValues["5%"] >= res.CriticalValues["10%"] {
		t.Errorf("critical values out of order: %v", res.CriticalValues)
	}
}

func TestADFTest_TrendingSeriesNotStationary(t *testing.T) {
	n := 150
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i) + hashNoise(i)
	}

	res, warnings := ADFTest(pts(xs...), DefaultParams())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if !res.Sufficient {
		t.Fatal("expected sufficient observations")
	}
	if res.IsStationary {
		t.Errorf("trending series flagged stationary (p=%v)", res.PValue.Float64)
	}
	if res.PValue.Float64 <= 0.10 {
		t.Errorf("p-value: got %v, want well above 0.10", res.PValue.Float64)
	}
}

func TestADFTest_InsufficientData(t *testing.T) {
	res, warnings := ADFTest(pts(1, 2, 3, 4, 5), DefaultParams())
	if res.Sufficient {
		t.Fatal("expected insufficient result")
	}
	if res.Statistic.Valid || res.PValue.Valid {
		t.Error("statistic and p-value must be null when insufficient")
	}
	if res.NObs != 5 {
		t.Errorf("n_obs: got %d, want 5", res.NObs)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "insufficient data") {
		t.Errorf("expected an insufficient-data warning, got %v", warnings)
	}
}

func TestADFTest_NullPointsAreSkipped(t *testing.T) {
	// 19 defined points plus nulls stays below the 20-observation floor.
	vals := make([]float64, 25)
	for i := range vals {
		if i < 19 {
			vals[i] = 0.5*float64(i%3) + hashNoise(i)
		} else {
			vals[i] = math.NaN()
		}
	}
	res, _ := ADFTest(pts(vals...), DefaultParams())
	if res.Sufficient {
		t.Fatal("null points must not count as observations")
	}
	if res.NObs != 19 {
		t.Errorf("n_obs: got %d, want 19", res.NObs)
	}
}

func TestADFTest_MaxLagOverride(t *testing.T) {
	n := 120
	xs := make([]float64, n)
	for i := 1; i < n; i++ {
		xs[i] = 0.5*xs[i-1] + hashNoise(i)
	}

	p := DefaultParams()
	p.ADFMaxLag = 0
	res, warnings := ADFTest(pts(xs...), p)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if res.UsedLags != 0 {
		t.Errorf("used_lags: got %d, want 0", res.UsedLags)
	}

	p.ADFMaxLag = 3
	res, _ = ADFTest(pts(xs...), p)
	if res.UsedLags > 3 {
		t.Errorf("used_lags: got %d, want <= 3", res.UsedLags)
	}
}

func TestMackinnonP_Boundaries(t *testing.T) {
	if p := mackinnonP(3.0); p != 1.0 {
		t.Errorf("statistic above tau_max: got %v, want 1.0", p)
	}
	if p := mackinnonP(-25.0); p != 0.0 {
		t.Errorf("statistic below tau_min: got %v, want 0.0", p)
	}
	// A strongly negative statistic maps to a tiny p-value, a positive
	// one to a large p-value.
	if p := mackinnonP(-6.0); p >= 0.001 {
		t.Errorf("p(-6.0): got %v, want < 0.001", p)
	}
	if p := mackinnonP(0.0); p <= 0.5 {
		t.Errorf("p(0.0): got %v, want > 0.5", p)
	}
	// Monotone around the surface switch point.
	lo, hi := mackinnonP(-1.7), mackinnonP(-1.5)
	if lo >= hi {
		t.Errorf("p-value not increasing across tau_star: p(-1.7)=%v, p(-1.5)=%v", lo, hi)
	}
}
