package ingest

import (
	"context"

	"github.com/Pratik8019/quant-app/internal/model"
)

// Source yields the current snapshot of ticks for one analysis pass.
type Source interface {
	// Snapshot returns all currently visible ticks sorted by time.
	Snapshot(ctx context.Context) ([]model.Tick, error)
	// Name identifies the source in logs.
	Name() string
	// Close releases the underlying feed.
	Close() error
}
