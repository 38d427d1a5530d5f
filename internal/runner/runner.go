package runner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Pratik8019/quant-app/internal/alert"
	"github.com/Pratik8019/quant-app/internal/analytics"
	"github.com/Pratik8019/quant-app/internal/ingest"
	"github.com/Pratik8019/quant-app/internal/model"
	"github.com/Pratik8019/quant-app/internal/notifier"
	"github.com/Pratik8019/quant-app/internal/recorder"
	"github.com/Pratik8019/quant-app/internal/resample"
)

// Notifier delivers alert notifications. *notifier.TelegramNotifier
// implements it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options wire a Runner.
type Options struct {
	Source   ingest.Source
	SymbolA  string
	SymbolB  string
	Interval model.Interval
	Join     analytics.JoinPolicy
	Params   analytics.Params
	Recorder recorder.Recorder
	Notifier Notifier         // nil disables notifications
	Alerts   *alert.Evaluator // nil disables alerting
}

// snapshot pairs a published bundle with the aligned closes it was
// computed from.
type snapshot struct {
	bundle *model.AnalysisBundle
	pair   analytics.AlignedPair
}

// Runner owns the recompute loop: snapshot ticks, resample both legs,
// align, analyze, publish, record, alert. Passes are serialized; a
// failed pass leaves the previously published bundle in place.
type Runner struct {
	opts Options
	cron *cron.Cron
	ctx  context.Context

	mu      sync.Mutex // serializes passes
	current atomic.Pointer[snapshot]
	runs    atomic.Int64
	lastRun atomic.Pointer[time.Time]
}

// New creates a Runner. ctx bounds cron-triggered passes and
// notification sends.
func New(ctx context.Context, opts Options) *Runner {
	return &Runner{
		opts: opts,
		cron: cron.New(cron.WithSeconds()),
		ctx:  ctx,
	}
}

// Schedule registers the periodic recompute.
func (r *Runner) Schedule(spec string) error {
	if _, err := r.cron.AddFunc(spec, func() {
		if _, err := r.RunOnce(r.ctx); err != nil {
			log.Printf("[ERROR] scheduled pass: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register refresh cron: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (r *Runner) Start() {
	r.cron.Start()
	log.Println("[INFO] runner scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (r *Runner) Stop() {
	r.cron.Stop()
	log.Println("[INFO] runner scheduler stopped")
}

// RunOnce executes one full analysis pass and publishes the result.
func (r *Runner) RunOnce(ctx context.Context) (*model.AnalysisBundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := time.Now()

	ticks, err := r.opts.Source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot ticks: %w", err)
	}

	seriesA, err := resample.Resample(ticks, r.opts.SymbolA, r.opts.Interval)
	if err != nil {
		return nil, fmt.Errorf("resample %s: %w", r.opts.SymbolA, err)
	}
	seriesB, err := resample.Resample(ticks, r.opts.SymbolB, r.opts.Interval)
	if err != nil {
		return nil, fmt.Errorf("resample %s: %w", r.opts.SymbolB, err)
	}

	pair, err := analytics.Align(seriesA, seriesB, r.opts.Join)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}

	bundle, err := analytics.Analyze(pair, r.opts.Interval, r.opts.Params)
	if err != nil {
		return nil, err
	}
	for _, w := range bundle.Warnings {
		log.Printf("[WARN] run %s: %s", bundle.RunID, w)
	}

	r.current.Store(&snapshot{bundle: bundle, pair: pair})
	r.runs.Add(1)
	now := time.Now()
	r.lastRun.Store(&now)

	if err := r.opts.Recorder.RecordRun(bundle); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	if err := r.opts.Recorder.RecordTrades(bundle); err != nil {
		log.Printf("[ERROR] record trades: %v", err)
	}

	if r.opts.Alerts != nil {
		if br, ok := r.opts.Alerts.Evaluate(bundle); ok {
			log.Printf("[INFO] alert: %s z=%+.3f (threshold %.2f)", br.Pair, br.Z, br.Threshold)
			if err := r.opts.Recorder.RecordAlert(br.Pair, br.Z, br.Threshold, br.Time); err != nil {
				log.Printf("[ERROR] record alert: %v", err)
			}
			if r.opts.Notifier != nil {
				if err := r.opts.Notifier.SendWithRetry(r.ctx, notifier.FormatBreach(br, bundle), 3); err != nil {
					log.Printf("[ERROR] send alert: %v", err)
				}
			}
		}
	}

	log.Printf("[INFO] run %s: %d ticks -> %d bars, %d warnings, took %s",
		bundle.RunID, len(ticks), pair.Len(), len(bundle.Warnings), time.Since(started).Round(time.Millisecond))
	return bundle, nil
}

// Snapshot returns the latest published bundle and its aligned prices.
func (r *Runner) Snapshot() (*model.AnalysisBundle, analytics.AlignedPair, bool) {
	s := r.current.Load()
	if s == nil {
		return nil, analytics.AlignedPair{}, false
	}
	return s.bundle, s.pair, true
}

// HandleCommand processes a Telegram command and returns a reply.
func (r *Runner) HandleCommand(command string) string {
	switch command {
	case "/status":
		var last time.Time
		if t := r.lastRun.Load(); t != nil {
			last = *t
		}
		return notifier.FormatStatus(r.opts.Source.Name(), r.runs.Load(), last)
	case "/latest":
		bundle, _, ok := r.Snapshot()
		if !ok {
			return "No analysis has completed yet."
		}
		return notifier.FormatSummary(bundle)
	case "/refresh":
		bundle, err := r.RunOnce(r.ctx)
		if err != nil {
			return fmt.Sprintf("Refresh failed: %v", err)
		}
		return notifier.FormatSummary(bundle)
	default:
		return notifier.FormatHelp()
	}
}
