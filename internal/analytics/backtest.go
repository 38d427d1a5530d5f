package analytics

import (
	"github.com/guregu/null/v6"

	"github.com/Pratik8019/quant-app/internal/model"
)

type positionState int

const (
	flat positionState = iota
	longPos
	shortPos
)

// Backtest replays the z-score series through a flat/long/short state
// machine, edge-triggered between consecutive defined z points (null
// points produce no signal). Signals execute at the spread value of the
// signal bar, at most one transition per bar. A position still open at
// the end is force-closed at the last defined spread and marked
// unrealized; it does not count toward NumTrades or WinRate. The equity
// curve is cumulative realized PnL plus the mark-to-market of the open
// position, one point per bar, carrying its last value across undefined
// spreads. Both inputs come from the same aligned series and have equal
// length.
func Backtest(spread, zscore []model.SeriesPoint, p Params) model.BacktestResult {
	res := model.BacktestResult{
		Trades: []model.TradeRecord{},
		Equity: make([]model.SeriesPoint, len(spread)),
	}

	state := flat
	var entryIdx int
	var entryZ, entrySpread, dir float64
	var direction model.Direction

	var prevZ float64
	havePrev := false

	realized := 0.0
	lastEquity := 0.0
	wins := 0

	closePosition := func(exitIdx int, exitZ, exitSpread float64, unrealized bool) {
		pnl := (exitSpread - entrySpread) * dir * p.PositionUnit
		res.Trades = append(res.Trades, model.TradeRecord{
			EntryTime:   spread[entryIdx].Time,
			ExitTime:    spread[exitIdx].Time,
			Direction:   direction,
			EntryZ:      entryZ,
			ExitZ:       exitZ,
			EntrySpread: entrySpread,
			ExitSpread:  exitSpread,
			PnL:         pnl,
			Unrealized:  unrealized,
		})
		if !unrealized {
			realized += pnl
			res.NumTrades++
			if pnl > 0 {
				wins++
			}
		}
		state = flat
	}

	for t := range spread {
		if zscore[t].Value.Valid {
			cur := zscore[t].Value.Float64
			if havePrev {
				// Spread is always defined where z is: the z window
				// includes the point itself.
				sp := spread[t].Value.Float64
				switch state {
				case flat:
					if prevZ > -p.EntryThreshold && cur <= -p.EntryThreshold {
						state, dir, direction = longPos, 1, model.LongSpread
						entryIdx, entryZ, entrySpread = t, cur, sp
					} else if prevZ < p.EntryThreshold && cur >= p.EntryThreshold {
						state, dir, direction = shortPos, -1, model.ShortSpread
						entryIdx, entryZ, entrySpread = t, cur, sp
					}
				case longPos:
					if prevZ < p.ExitThreshold && cur >= p.ExitThreshold {
						closePosition(t, cur, sp, false)
					}
				case shortPos:
					if prevZ > p.ExitThreshold && cur <= p.ExitThreshold {
						closePosition(t, cur, sp, false)
					}
				}
			}
			prevZ, havePrev = cur, true
		}

		res.Equity[t] = model.SeriesPoint{Time: spread[t].Time}
		if spread[t].Value.Valid {
			eq := realized
			if state != flat {
				eq += (spread[t].Value.Float64 - entrySpread) * dir * p.PositionUnit
			}
			lastEquity = eq
		}
		res.Equity[t].Value = null.FloatFrom(lastEquity)
	}

	if state != flat {
		exitIdx := len(spread) - 1
		for exitIdx >= 0 && !spread[exitIdx].Value.Valid {
			exitIdx--
		}
		// The entry bar itself had a defined spread, so exitIdx lands
		// at or after it.
		closePosition(exitIdx, prevZ, spread[exitIdx].Value.Float64, true)
	}

	if n := len(res.Equity); n > 0 {
		res.TotalReturn = res.Equity[n-1].Value.Float64
	}
	if res.NumTrades > 0 {
		res.WinRate = float64(wins) / float64(res.NumTrades)
	}
	return res
}
