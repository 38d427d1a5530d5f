package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"github.com/Pratik8019/quant-app/internal/alert"
	"github.com/Pratik8019/quant-app/internal/model"
)

func fmtNull(f null.Float, format string) string {
	if !f.Valid {
		return "n/a"
	}
	return fmt.Sprintf(format, f.Float64)
}

// FormatBreach formats a z-score threshold breach into a Telegram alert.
func FormatBreach(br alert.Breach, b *model.AnalysisBundle) string {
	var sb strings.Builder

	side := "spread rich, short candidate"
	if br.Z < 0 {
		side = "spread cheap, long candidate"
	}

	sb.WriteString(fmt.Sprintf("🚨 <b>Z-score breach</b> | %s\n\n", br.Pair))
	sb.WriteString(fmt.Sprintf("z = %+.3f (threshold %.2f)\n", br.Z, br.Threshold))
	sb.WriteString(fmt.Sprintf("Signal: %s\n", side))
	sb.WriteString(fmt.Sprintf("Bar: %s (%s)\n\n", br.Time.UTC().Format("2006-01-02 15:04:05"), b.Interval))

	sb.WriteString(fmt.Sprintf("Hedge ratio: %.6f (%s)\n", b.Hedge.Ratio, b.Hedge.Method))
	sb.WriteString(fmt.Sprintf("ADF p-value: %s | stationary: %v\n", fmtNull(b.ADF.PValue, "%.4f"), b.ADF.IsStationary))
	if !b.ADF.Sufficient {
		sb.WriteString("⚠️ stationarity test had too few observations\n")
	}
	return sb.String()
}

// FormatSummary formats the latest bundle into a compact run report.
func FormatSummary(b *model.AnalysisBundle) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 <b>%s / %s</b> | %s bars\n", b.SymbolA, b.SymbolB, b.Interval))
	sb.WriteString(fmt.Sprintf("as of %s\n\n", b.AsOf.UTC().Format("2006-01-02 15:04:05")))

	sb.WriteString(fmt.Sprintf("Hedge: ratio %.6f, method %s", b.Hedge.Ratio, b.Hedge.Method))
	if b.Hedge.RSquared.Valid {
		sb.WriteString(fmt.Sprintf(", R² %.4f", b.Hedge.RSquared.Float64))
	}
	if b.Hedge.ConditionFlag {
		sb.WriteString(" ⚠️")
	}
	sb.WriteString("\n")

	if z, ok := b.LatestZ(); ok {
		sb.WriteString(fmt.Sprintf("Latest z: %+.3f\n", z.Value.Float64))
	} else {
		sb.WriteString("Latest z: n/a\n")
	}

	sb.WriteString(fmt.Sprintf("ADF: stat %s, p %s, lags %d → stationary: %v\n",
		fmtNull(b.ADF.Statistic, "%.3f"), fmtNull(b.ADF.PValue, "%.4f"), b.ADF.UsedLags, b.ADF.IsStationary))

	bt := b.Backtest
	sb.WriteString(fmt.Sprintf("Backtest: %d trades, win rate %.0f%%, total return %+.4f\n",
		bt.NumTrades, bt.WinRate*100, bt.TotalReturn))

	if len(b.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ %d warning(s):\n", len(b.Warnings)))
		for _, w := range b.Warnings {
			sb.WriteString("• " + w + "\n")
		}
	}
	return sb.String()
}

// FormatStatus formats the daemon status for the /status command.
func FormatStatus(source string, runs int64, lastRun time.Time) string {
	var sb strings.Builder
	sb.WriteString("🛰 <b>quantapp status</b>\n\n")
	sb.WriteString(fmt.Sprintf("Source: %s\n", source))
	sb.WriteString(fmt.Sprintf("Completed passes: %d\n", runs))
	if lastRun.IsZero() {
		sb.WriteString("Last run: never\n")
	} else {
		sb.WriteString(fmt.Sprintf("Last run: %s\n", lastRun.UTC().Format("2006-01-02 15:04:05")))
	}
	return sb.String()
}

// FormatHelp lists the available commands.
func FormatHelp() string {
	return strings.Join([]string{
		"Available commands:",
		"/status - daemon status",
		"/latest - latest analysis summary",
		"/refresh - run an analysis pass now",
		"/help - this message",
	}, "\n")
}
