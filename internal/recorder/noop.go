package recorder

import (
	"time"

	"github.com/Pratik8019/quant-app/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.AnalysisBundle) error               { return nil }
func (n *NoopRecorder) RecordTrades(_ *model.AnalysisBundle) error            { return nil }
func (n *NoopRecorder) RecordAlert(_ string, _, _ float64, _ time.Time) error { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }
