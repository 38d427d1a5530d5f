package resample

import (
	"sort"

	"github.com/Pratik8019/quant-app/internal/model"
)

// Resample buckets the ticks of one symbol into OHLCV bars of the given
// interval. Ticks must be sorted ascending by time, as the sources
// deliver them; the first tick of a bucket sets the open, the last the
// close. Empty buckets produce no bar. Output is sorted ascending.
func Resample(ticks []model.Tick, symbol string, interval model.Interval) (model.BarSeries, error) {
	d, err := interval.Duration()
	if err != nil {
		return model.BarSeries{}, err
	}

	buckets := make(map[int64]*model.Bar)
	for _, t := range ticks {
		if t.Symbol != symbol {
			continue
		}
		ts := t.Time.UTC().Truncate(d)
		px := t.Price.InexactFloat64()
		qty := t.Qty.InexactFloat64()

		b, ok := buckets[ts.UnixNano()]
		if !ok {
			buckets[ts.UnixNano()] = &model.Bar{
				Time: ts, Open: px, High: px, Low: px, Close: px, Volume: qty,
			}
			continue
		}
		if px > b.High {
			b.High = px
		}
		if px < b.Low {
			b.Low = px
		}
		b.Close = px
		b.Volume += qty
	}

	bars := make([]model.Bar, 0, len(buckets))
	for _, b := range buckets {
		bars = append(bars, *b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return model.BarSeries{Symbol: symbol, Interval: interval, Bars: bars}, nil
}
