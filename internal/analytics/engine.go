package analytics

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Pratik8019/quant-app/internal/model"
)

// Analyze runs the full pipeline over the aligned pair and returns a
// fresh immutable bundle: hedge ratio, spread, rolling z-score, rolling
// correlation, normalized display series, ADF test and backtest. The
// whole visible window is recomputed on every call; no partial bundle
// escapes a failed pass. Degeneracies are reported through
// bundle.Warnings, not errors.
func Analyze(pair AlignedPair, interval model.Interval, p Params) (*model.AnalysisBundle, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	base := applyBasis(pair, p.PriceMode)
	warnings := make([]string, 0, 2)

	hedge, hedgeWarnings, err := EstimateHedgeRatio(base, p)
	if err != nil {
		return nil, fmt.Errorf("analyze %s/%s: %w", pair.SymbolA, pair.SymbolB, err)
	}
	warnings = append(warnings, hedgeWarnings...)

	spread := ComputeSpread(base, hedge)
	zscore := RollingZScore(spread, p.ZWindow)
	corr := RollingCorrelation(base, p.CorrWindow)

	adf, adfWarnings := ADFTest(spread, p)
	warnings = append(warnings, adfWarnings...)

	bundle := &model.AnalysisBundle{
		RunID:       uuid.New(),
		SymbolA:     pair.SymbolA,
		SymbolB:     pair.SymbolB,
		Interval:    interval,
		Hedge:       hedge,
		Spread:      spread,
		ZScore:      zscore,
		Correlation: corr,
		NormalizedA: normalizedPoints(pair.Times, pair.CloseA),
		NormalizedB: normalizedPoints(pair.Times, pair.CloseB),
		ADF:         adf,
		Backtest:    Backtest(spread, zscore, p),
		Warnings:    warnings,
	}
	if n := len(base.Times); n > 0 {
		bundle.AsOf = base.Times[n-1]
	}
	return bundle, nil
}
