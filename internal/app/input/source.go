package input

import (
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// Source delivers pending raw events, one batch per loop iteration.
type Source interface {
	NextBatch() []RawEvent
}

// Queue is a Source fed by another goroutine, typically the terminal UI.
type Queue struct {
	mu     sync.Mutex
	ch     chan RawEvent
	closed bool
}

// NewQueue creates a queue holding at most size undelivered events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{ch: make(chan RawEvent, size)}
}

// Push adds an event without blocking. Events are dropped when the queue
// is full or closed.
func (q *Queue) Push(ev RawEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	select {
	case q.ch <- ev:
		return true
	default:
		zlog.Warn().Msgf("input: queue full, dropping key: key=%q", ev.Key)
		return false
	}
}

// NextBatch drains every pending event in arrival order.
func (q *Queue) NextBatch() []RawEvent {
	var batch []RawEvent
	for {
		select {
		case ev, ok := <-q.ch:
			if !ok {
				return batch
			}
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

// Close stops accepting events. Pending events can still be drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
