package recorder

import (
	"time"

	"github.com/Pratik8019/quant-app/internal/model"
)

// Recorder persists run history for later analysis.
type Recorder interface {
	// RecordRun stores one row summarizing an analysis pass.
	RecordRun(b *model.AnalysisBundle) error
	// RecordTrades stores the backtest trade log of a pass, keyed by its
	// run id.
	RecordTrades(b *model.AnalysisBundle) error
	// RecordAlert stores one fired z-score breach.
	RecordAlert(pair string, z, threshold float64, at time.Time) error
	Close() error
}
