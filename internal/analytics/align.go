package analytics

import (
	"fmt"
	"time"

	"github.com/Pratik8019/quant-app/internal/model"
)

// JoinPolicy controls how two bar series are merged onto one index.
type JoinPolicy string

const (
	JoinIntersect JoinPolicy = "intersect"
	JoinFFill     JoinPolicy = "ffill"
)

// AlignedPair is two close-price vectors on a shared ascending timestamp
// index. Times, CloseA and CloseB always have equal length.
type AlignedPair struct {
	SymbolA string
	SymbolB string
	Times   []time.Time
	CloseA  []float64
	CloseB  []float64
}

// Len returns the number of aligned bars.
func (p AlignedPair) Len() int { return len(p.Times) }

// Align joins two bar series onto a common timestamp index. Both inputs
// must be sorted ascending with unique timestamps, as the resampler
// produces them. An empty policy means intersect.
func Align(a, b model.BarSeries, policy JoinPolicy) (AlignedPair, error) {
	out := AlignedPair{SymbolA: a.Symbol, SymbolB: b.Symbol}

	switch policy {
	case "", JoinIntersect:
		i, j := 0, 0
		for i < len(a.Bars) && j < len(b.Bars) {
			ta, tb := a.Bars[i].Time, b.Bars[j].Time
			switch {
			case ta.Equal(tb):
				out.Times = append(out.Times, ta)
				out.CloseA = append(out.CloseA, a.Bars[i].Close)
				out.CloseB = append(out.CloseB, b.Bars[j].Close)
				i++
				j++
			case ta.Before(tb):
				i++
			default:
				j++
			}
		}

	case JoinFFill:
		// Union of both indexes, each leg forward-filled. Rows before
		// both legs have a value are dropped.
		i, j := 0, 0
		var lastA, lastB float64
		var haveA, haveB bool
		for i < len(a.Bars) || j < len(b.Bars) {
			var t time.Time
			advanceA, advanceB := false, false
			switch {
			case j >= len(b.Bars) || (i < len(a.Bars) && a.Bars[i].Time.Before(b.Bars[j].Time)):
				t = a.Bars[i].Time
				advanceA = true
			case i >= len(a.Bars) || b.Bars[j].Time.Before(a.Bars[i].Time):
				t = b.Bars[j].Time
				advanceB = true
			default:
				t = a.Bars[i].Time
				advanceA, advanceB = true, true
			}
			if advanceA {
				lastA = a.Bars[i].Close
				haveA = true
				i++
			}
			if advanceB {
				lastB = b.Bars[j].Close
				haveB = true
				j++
			}
			if haveA && haveB {
				out.Times = append(out.Times, t)
				out.CloseA = append(out.CloseA, lastA)
				out.CloseB = append(out.CloseB, lastB)
			}
		}

	default:
		return AlignedPair{}, &ConfigurationError{Field: "join", Reason: fmt.Sprintf("unknown policy %q", string(policy))}
	}

	return out, nil
}
