package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleQueue_AppendDrain(t *testing.T) {
	q := NewSampleQueue(100)

	q.Append([]float32{1, 2, 3})
	q.Append([]float32{4, 5})

	out := q.Drain()
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, out)
}

func TestSampleQueue_DrainEmpties(t *testing.T) {
	q := NewSampleQueue(100)

	q.Append([]float32{1, 2, 3})

	first := q.Drain()
	require.NotEmpty(t, first)

	second := q.Drain()
	assert.Empty(t, second)
	assert.Equal(t, 0, q.Len())
}

func TestSampleQueue_DropsOldestAtCapacity(t *testing.T) {
	q := NewSampleQueue(4)

	q.Append([]float32{1, 2, 3})
	q.Append([]float32{4, 5, 6})

	out := q.Drain()
	assert.Equal(t, []float32{3, 4, 5, 6}, out)
	assert.Equal(t, uint64(2), q.Dropped())
}

func TestSampleQueue_BlockLargerThanCapacityKeepsTail(t *testing.T) {
	q := NewSampleQueue(3)

	q.Append([]float32{1, 2})
	q.Append([]float32{10, 20, 30, 40, 50})

	out := q.Drain()
	assert.Equal(t, []float32{30, 40, 50}, out)
	assert.Equal(t, uint64(4), q.Dropped())
}

func TestSampleQueue_EmptyAppendIsNoop(t *testing.T) {
	q := NewSampleQueue(10)

	q.Append(nil)
	q.Append([]float32{})

	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}

// TestSampleQueue_ConcurrentProducerConsumer exercises the queue under the
// same access pattern as the decode goroutine and the tick loop.
func TestSampleQueue_ConcurrentProducerConsumer(t *testing.T) {
	q := NewSampleQueue(1 << 16)

	const blocks = 200
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		block := make([]float32, 64)
		for i := 0; i < blocks; i++ {
			q.Append(block)
		}
	}()

	total := 0
	for i := 0; i < blocks; i++ {
		total += len(q.Drain())
	}
	wg.Wait()
	total += len(q.Drain())

	assert.Equal(t, blocks*64, total)
	assert.Equal(t, uint64(0), q.Dropped())
}
