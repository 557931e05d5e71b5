// Package risk evaluates execution risk for prospective trades: slippage
// bounds, price-impact verdicts, anomalous price-pattern detection, and
// adaptive tolerance recommendations.
package risk

import (
	"sync"
	"time"

	"github.com/meridianswap/swap-engine/internal/domain"
)

// DefaultHistoryCapacity bounds each pair's price ring when no explicit
// capacity is configured.
const DefaultHistoryCapacity = 100

// History keeps a fixed-capacity ring of recent price observations per
// pair. Purely in-memory working state; nothing survives a restart.
type History struct {
	mu       sync.RWMutex
	capacity int
	rings    map[string]*ring
}

// ring is a circular buffer: head is the next write slot, size never
// exceeds capacity, the oldest sample is overwritten on overflow.
type ring struct {
	samples []domain.PriceSample
	head    int
	size    int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		capacity: capacity,
		rings:    make(map[string]*ring),
	}
}

// Record appends one observation for the pair, evicting the oldest sample
// once the ring is full. O(1) per call.
func (h *History) Record(pairID string, price float64, sequence uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rb, ok := h.rings[pairID]
	if !ok {
		rb = &ring{samples: make([]domain.PriceSample, h.capacity)}
		h.rings[pairID] = rb
	}

	rb.samples[rb.head] = domain.PriceSample{
		Price:     price,
		Timestamp: time.Now(),
		Sequence:  sequence,
	}
	rb.head = (rb.head + 1) % h.capacity
	if rb.size < h.capacity {
		rb.size++
	}
}

// Samples returns the pair's observations most-recent-first. The result is
// a copy; callers may hold it without blocking writers.
func (h *History) Samples(pairID string) []domain.PriceSample {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rb, ok := h.rings[pairID]
	if !ok {
		return nil
	}

	out := make([]domain.PriceSample, rb.size)
	for i := 0; i < rb.size; i++ {
		idx := (rb.head - 1 - i + h.capacity) % h.capacity
		out[i] = rb.samples[idx]
	}
	return out
}

// Len reports the number of samples held for the pair.
func (h *History) Len(pairID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if rb, ok := h.rings[pairID]; ok {
		return rb.size
	}
	return 0
}

// Capacity returns the per-pair ring bound.
func (h *History) Capacity() int {
	return h.capacity
}
