package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Pratik8019/quant-app/internal/alert"
	"github.com/Pratik8019/quant-app/internal/analytics"
	"github.com/Pratik8019/quant-app/internal/config"
	"github.com/Pratik8019/quant-app/internal/ingest"
	"github.com/Pratik8019/quant-app/internal/model"
	"github.com/Pratik8019/quant-app/internal/notifier"
	"github.com/Pratik8019/quant-app/internal/recorder"
	"github.com/Pratik8019/quant-app/internal/runner"
	"github.com/Pratik8019/quant-app/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] quantapp starting...")

	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init tick source
	var src ingest.Source
	switch cfg.Source.Mode {
	case "nats":
		ns, err := ingest.NewNATSSource(cfg.Source.NATS.URL, cfg.Source.NATS.Subject, cfg.Source.NATS.Buffer)
		if err != nil {
			log.Fatalf("[FATAL] connect nats: %v", err)
		}
		src = ns
	default:
		src = ingest.NewFileSource(cfg.Source.File)
	}
	defer src.Close()
	log.Printf("[INFO] tick source: %s", src.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if tn.Enabled() {
		log.Println("[INFO] Telegram notifications enabled")
	} else {
		log.Println("[INFO] Telegram notifications disabled (no token/chat configured)")
	}

	// Init alert evaluator
	alerts := alert.NewEvaluator(cfg.AlertThreshold(), cfg.AlertCooldown(), cfg.Alert.StateFile)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init runner
	opts := runner.Options{
		Source:   src,
		SymbolA:  cfg.Pair.SymbolA,
		SymbolB:  cfg.Pair.SymbolB,
		Interval: model.Interval(cfg.Interval),
		Join:     analytics.JoinPolicy(cfg.Join),
		Params:   cfg.Analysis,
		Recorder: rec,
		Alerts:   alerts,
	}
	if tn.Enabled() {
		opts.Notifier = tn
	}
	run := runner.New(ctx, opts)
	if err := run.Schedule(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh cron: %v", err)
	}
	run.Start()
	defer run.Stop()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, run.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if cfg.Schedule.RunOnStart {
		if _, err := run.RunOnce(ctx); err != nil {
			log.Printf("[ERROR] initial pass: %v", err)
		}
	}

	// Start HTTP API
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.New(run),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] quantapp is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] quantapp stopped")
}
