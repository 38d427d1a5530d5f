package alert

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/Pratik8019/quant-app/internal/model"
)

// Breach describes a z-score threshold crossing worth notifying.
type Breach struct {
	Pair      string
	Z         float64
	Threshold float64
	Time      time.Time
}

// Evaluator fires at most one breach per pair per cooldown period, based
// on the latest defined z-score of a bundle. Fired alerts are persisted
// so restarts don't re-notify.
type Evaluator struct {
	mu        sync.Mutex
	threshold float64
	cooldown  time.Duration
	statePath string
	state     State
	now       func() time.Time
}

// NewEvaluator loads persisted cooldown state from statePath (empty path
// disables persistence). An unreadable state file starts fresh.
func NewEvaluator(threshold float64, cooldown time.Duration, statePath string) *Evaluator {
	st := State{LastAlert: make(map[string]time.Time)}
	if statePath != "" {
		loaded, err := LoadState(statePath)
		if err != nil {
			log.Printf("[WARN] alert: load state %s: %v (starting fresh)", statePath, err)
		} else {
			st = loaded
		}
	}
	return &Evaluator{
		threshold: threshold,
		cooldown:  cooldown,
		statePath: statePath,
		state:     st,
		now:       time.Now,
	}
}

// Evaluate returns a breach when the latest defined z-score of the bundle
// reaches the threshold in absolute value and the pair's cooldown has
// lapsed.
func (e *Evaluator) Evaluate(b *model.AnalysisBundle) (Breach, bool) {
	pt, ok := b.LatestZ()
	if !ok {
		return Breach{}, false
	}
	z := pt.Value.Float64
	if math.Abs(z) < e.threshold {
		return Breach{}, false
	}

	pair := b.SymbolA + "/" + b.SymbolB
	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()
	if last, ok := e.state.LastAlert[pair]; ok && now.Sub(last) < e.cooldown {
		return Breach{}, false
	}
	e.state.LastAlert[pair] = now
	if e.statePath != "" {
		if err := SaveState(e.statePath, e.state); err != nil {
			log.Printf("[WARN] alert: save state %s: %v", e.statePath, err)
		}
	}

	return Breach{Pair: pair, Z: z, Threshold: e.threshold, Time: pt.Time}, true
}
