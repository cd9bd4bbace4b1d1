package sched

import (
	"sync"

	"github.com/emirpasic/gods/queues/circularbuffer"
)

// History keeps the most recent decisions, oldest first.
type History struct {
	mu    sync.Mutex
	ring  *circularbuffer.Queue
	total uint64
}

func NewHistory(size int) *History {
	return &History{ring: circularbuffer.New(size)}
}

// Record appends d, evicting the oldest decision when full.
func (h *History) Record(d Decision) {
	h.mu.Lock()
	h.ring.Enqueue(d)
	h.total++
	h.mu.Unlock()
}

// Decisions returns the retained decisions, oldest first.
func (h *History) Decisions() []Decision {
	h.mu.Lock()
	defer h.mu.Unlock()

	values := h.ring.Values()
	out := make([]Decision, 0, len(values))
	for _, v := range values {
		out = append(out, v.(Decision))
	}
	return out
}

// Total is the number of decisions ever recorded.
func (h *History) Total() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}
