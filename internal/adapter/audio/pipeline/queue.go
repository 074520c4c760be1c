package pipeline

import (
	"sync"
)

// SampleQueue is the ordered, thread-shared buffer of processed samples
// connecting the decode goroutine to its consumer. The producer appends,
// the consumer drains destructively once per UI tick.
//
// The queue is bounded: when an append would exceed capacity, the oldest
// samples are dropped. The visualizer prefers fresh audio over completeness,
// so a stalled consumer loses history instead of growing the heap.
type SampleQueue struct {
	mu       sync.Mutex
	buf      []float32
	capacity int
	dropped  uint64
}

// NewSampleQueue creates a queue bounded at the given sample capacity.
func NewSampleQueue(capacity int) *SampleQueue {
	return &SampleQueue{capacity: capacity}
}

// Append adds samples in FIFO order, dropping the oldest buffered samples
// when capacity would be exceeded.
func (q *SampleQueue) Append(samples []float32) {
	if len(samples) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(samples) >= q.capacity {
		// The block alone overflows the queue; keep only its tail
		q.dropped += uint64(len(q.buf) + len(samples) - q.capacity)
		q.buf = append(q.buf[:0], samples[len(samples)-q.capacity:]...)
		return
	}

	q.buf = append(q.buf, samples...)
	if over := len(q.buf) - q.capacity; over > 0 {
		q.dropped += uint64(over)
		q.buf = append(q.buf[:0], q.buf[over:]...)
	}
}

// Drain removes and returns all buffered samples. Non-blocking; returns an
// empty slice when nothing was produced since the last call.
func (q *SampleQueue) Drain() []float32 {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.buf
	q.buf = nil
	return out
}

// Len returns the number of buffered samples.
func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Dropped returns the total number of samples discarded by the bound.
func (q *SampleQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
