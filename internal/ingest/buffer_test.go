package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Pratik8019/quant-app/internal/model"
)

func tickAt(i int) model.Tick {
	return model.Tick{
		Symbol: "X",
		Time:   time.Date(2024, 1, 2, 9, 0, i, 0, time.UTC),
		Price:  decimal.NewFromInt(int64(i + 1)),
	}
}

func TestBuffer_EvictsOldest(t *testing.T) {
	b := NewBuffer(3)
	for i := 0; i < 5; i++ {
		b.Add(tickAt(i))
	}
	if b.Len() != 3 {
		t.Fatalf("len: got %d, want 3", b.Len())
	}

	snap := b.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot: got %d ticks, want 3", len(snap))
	}
	for i, want := range []int64{3, 4, 5} {
		if !snap[i].Price.Equal(decimal.NewFromInt(want)) {
			t.Errorf("snapshot[%d]: got price %s, want %d", i, snap[i].Price, want)
		}
	}
}

func TestBuffer_FillsInOrder(t *testing.T) {
	b := NewBuffer(10)
	for i := 0; i < 4; i++ {
		b.Add(tickAt(i))
	}
	snap := b.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("snapshot: got %d ticks, want 4", len(snap))
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].Time.Before(snap[i-1].Time) {
			t.Errorf("arrival order broken at %d", i)
		}
	}
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	b := NewBuffer(0)
	b.Add(tickAt(0))
	if b.Len() != 1 {
		t.Errorf("len: got %d, want 1", b.Len())
	}
}

func TestBuffer_SnapshotIsACopy(t *testing.T) {
	b := NewBuffer(2)
	b.Add(tickAt(0))
	snap := b.Snapshot()
	snap[0].Symbol = "mutated"

	if got := b.Snapshot()[0].Symbol; got != "X" {
		t.Errorf("buffer contents mutated through snapshot: %q", got)
	}
}
