package ingest

import (
	"sync"

	"github.com/Pratik8019/quant-app/internal/model"
)

// DefaultBufferSize bounds the live tick buffer when the config does not
// set one.
const DefaultBufferSize = 100000

// Buffer is a bounded in-memory tick store. Once full, the oldest tick is
// dropped for each new one.
type Buffer struct {
	mu   sync.Mutex
	buf  []model.Tick
	head int
	size int
}

// NewBuffer creates a buffer holding at most capacity ticks.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &Buffer{buf: make([]model.Tick, capacity)}
}

// Add appends a tick, evicting the oldest when full.
func (b *Buffer) Add(t model.Tick) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.size < len(b.buf) {
		b.buf[(b.head+b.size)%len(b.buf)] = t
		b.size++
		return
	}
	b.buf[b.head] = t
	b.head = (b.head + 1) % len(b.buf)
}

// Len returns the number of buffered ticks.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Snapshot copies out the buffered ticks in arrival order.
func (b *Buffer) Snapshot() []model.Tick {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Tick, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.buf[(b.head+i)%len(b.buf)]
	}
	return out
}
