package analytics

import (
	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	"github.com/Pratik8019/quant-app/internal/model"
)

// ComputeSpread evaluates spread[t] = closeA[t] - ratio*closeB[t] - intercept
// over the full aligned series. A null intercept contributes zero.
// Non-finite results are stored as null points.
func ComputeSpread(pair AlignedPair, hedge model.HedgeRatioResult) []model.SeriesPoint {
	intercept := hedge.Intercept.ValueOrZero()
	out := make([]model.SeriesPoint, pair.Len())
	for i := range out {
		out[i] = model.SeriesPoint{Time: pair.Times[i]}
		v := pair.CloseA[i] - hedge.Ratio*pair.CloseB[i] - intercept
		if finite(v) {
			out[i].Value = null.FloatFrom(v)
		}
	}
	return out
}

// RollingZScore standardizes each spread point against the trailing window
// of exactly `window` points including itself, using the sample standard
// deviation. Points are null during warmup, when the window std is zero,
// and when the window contains undefined spread values.
func RollingZScore(spread []model.SeriesPoint, window int) []model.SeriesPoint {
	out := make([]model.SeriesPoint, len(spread))
	buf := make([]float64, 0, window)
	for t := range spread {
		out[t] = model.SeriesPoint{Time: spread[t].Time}
		if t < window-1 {
			continue
		}
		buf = buf[:0]
		defined := true
		for i := t - window + 1; i <= t; i++ {
			if !spread[i].Value.Valid {
				defined = false
				break
			}
			buf = append(buf, spread[i].Value.Float64)
		}
		if !defined {
			continue
		}
		mean, std := stat.MeanStdDev(buf, nil)
		if std == 0 || !finite(std) {
			continue
		}
		z := (spread[t].Value.Float64 - mean) / std
		if finite(z) {
			out[t].Value = null.FloatFrom(z)
		}
	}
	return out
}
