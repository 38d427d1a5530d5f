package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/guregu/null/v6"

	"github.com/Pratik8019/quant-app/internal/analytics"
	"github.com/Pratik8019/quant-app/internal/export"
	"github.com/Pratik8019/quant-app/internal/model"
)

// Provider exposes the latest analysis snapshot and on-demand recompute.
// *runner.Runner implements it.
type Provider interface {
	Snapshot() (*model.AnalysisBundle, analytics.AlignedPair, bool)
	RunOnce(ctx context.Context) (*model.AnalysisBundle, error)
}

// Summary is the compact run representation served by /api/summary and
// /api/refresh.
type Summary struct {
	RunID       string            `json:"run_id"`
	SymbolA     string            `json:"symbol_a"`
	SymbolB     string            `json:"symbol_b"`
	Interval    model.Interval    `json:"interval"`
	AsOf        time.Time         `json:"as_of"`
	Bars        int               `json:"bars"`
	HedgeRatio  float64           `json:"hedge_ratio"`
	HedgeMethod model.HedgeMethod `json:"hedge_method"`
	LatestZ     null.Float        `json:"latest_z"`
	ADFPValue   null.Float        `json:"adf_p_value"`
	Stationary  bool              `json:"is_stationary"`
	NumTrades   int               `json:"num_trades"`
	WinRate     float64           `json:"win_rate"`
	TotalReturn float64           `json:"total_return"`
	Warnings    []string          `json:"warnings"`
}

func summarize(b *model.AnalysisBundle) Summary {
	s := Summary{
		RunID:       b.RunID.String(),
		SymbolA:     b.SymbolA,
		SymbolB:     b.SymbolB,
		Interval:    b.Interval,
		AsOf:        b.AsOf,
		Bars:        len(b.Spread),
		HedgeRatio:  b.Hedge.Ratio,
		HedgeMethod: b.Hedge.Method,
		ADFPValue:   b.ADF.PValue,
		Stationary:  b.ADF.IsStationary,
		NumTrades:   b.Backtest.NumTrades,
		WinRate:     b.Backtest.WinRate,
		TotalReturn: b.Backtest.TotalReturn,
		Warnings:    b.Warnings,
	}
	if z, ok := b.LatestZ(); ok {
		s.LatestZ = z.Value
	}
	return s
}

type server struct {
	provider Provider
}

// New builds the HTTP API handler.
func New(p Provider) http.Handler {
	s := &server{provider: p}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/bundle", s.handleBundle)
		r.Get("/summary", s.handleSummary)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/export/{component}", s.handleExport)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleBundle(w http.ResponseWriter, _ *http.Request) {
	bundle, _, ok := s.provider.Snapshot()
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis available yet")
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	bundle, _, ok := s.provider.Snapshot()
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis available yet")
		return
	}
	writeJSON(w, http.StatusOK, summarize(bundle))
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.provider.RunOnce(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summarize(bundle))
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	bundle, pair, ok := s.provider.Snapshot()
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis available yet")
		return
	}

	component := chi.URLParam(r, "component")
	var buf bytes.Buffer
	var err error
	switch component {
	case "spread.csv":
		err = export.WriteSeries(&buf, "spread", bundle.Spread)
	case "zscore.csv":
		err = export.WriteSeries(&buf, "zscore", bundle.ZScore)
	case "correlation.csv":
		err = export.WriteSeries(&buf, "correlation", bundle.Correlation)
	case "equity.csv":
		err = export.WriteSeries(&buf, "equity", bundle.Backtest.Equity)
	case "trades.csv":
		err = export.WriteTrades(&buf, bundle.Backtest.Trades)
	case "prices.csv":
		err = export.WritePrices(&buf, pair)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown export component %q", component))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", component))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[ERROR] write csv: %v", err)
	}
}
