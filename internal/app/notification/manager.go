// Package notification provides the notification manager for broadcasting
// game changes to presenters.
package notification

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/app/round"
)

// Kind tells which payload a notification carries.
type Kind int

const (
	KindStateChanged Kind = iota // Change is set
	KindBoard                    // Board is set
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindStateChanged:
		return "state_changed"
	case KindBoard:
		return "board"
	default:
		return "unknown"
	}
}

// Notification is one message delivered to subscribers.
type Notification struct {
	SequenceNo uint64
	Kind       Kind
	Change     round.Change
	Board      round.Board
	At         time.Time
}

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(Notification) error
}

// subscription represents a subscriber's subscription. Each one has its
// own queue and sender goroutine so a slow subscriber only loses its own
// notifications.
type subscription struct {
	id      string
	stream  Stream
	queue   chan Notification
	done    chan struct{}
	dropped atomic.Uint64
}

func (s *subscription) run() {
	defer close(s.done)
	for n := range s.queue {
		if err := s.stream.Send(n); err != nil {
			zlog.Debug().Msgf("notification: send failed: subscription=%s seq=%d error=%v", s.id, n.SequenceNo, err)
		}
	}
}

// Manager manages notification subscriptions and broadcasting. It
// implements round.Presenter without ever blocking the caller.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	sequenceNoMu  sync.Mutex
	queueSize     int
	now           func() time.Time
}

// NewManager creates a new notification manager. queueSize bounds the
// undelivered notifications kept per subscriber.
func NewManager(queueSize int) *Manager {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Manager{
		subscriptions: make(map[string]*subscription),
		queueSize:     queueSize,
		now:           time.Now,
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	sub := &subscription{
		id:     id,
		stream: stream,
		queue:  make(chan Notification, m.queueSize),
		done:   make(chan struct{}),
	}
	m.subscriptions[id] = sub
	go sub.run()
	return id
}

// NextSequenceNo returns the next sequence number and increments the counter.
func (m *Manager) NextSequenceNo() uint64 {
	m.sequenceNoMu.Lock()
	defer m.sequenceNoMu.Unlock()
	m.sequenceNo++
	return m.sequenceNo
}

// Unsubscribe removes a subscription. Notifications already queued for it
// are still delivered.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	sub, ok := m.subscriptions[subscriptionID]
	delete(m.subscriptions, subscriptionID)
	m.mu.Unlock()

	if ok {
		close(sub.queue)
	}
}

// Broadcast stamps the notification with a sequence number and queues it
// for every subscriber. A full queue drops the notification for that
// subscriber only.
func (m *Manager) Broadcast(n Notification) {
	n.SequenceNo = m.NextSequenceNo()
	if n.At.IsZero() {
		n.At = m.now()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscriptions {
		select {
		case sub.queue <- n:
		default:
			if sub.dropped.Add(1) == 1 {
				zlog.Warn().Msgf("notification: subscriber is slow, dropping: subscription=%s", sub.id)
			}
		}
	}
}

// NotifyStateChanged broadcasts one actor change.
func (m *Manager) NotifyStateChanged(change round.Change) {
	m.Broadcast(Notification{Kind: KindStateChanged, Change: change})
}

// Render broadcasts a board snapshot.
func (m *Manager) Render(board round.Board) {
	m.Broadcast(Notification{Kind: KindBoard, Board: board})
}

// Close removes all subscriptions and waits until their queued
// notifications are delivered.
func (m *Manager) Close() {
	m.mu.Lock()
	subs := m.subscriptions
	m.subscriptions = make(map[string]*subscription)
	m.mu.Unlock()

	for _, sub := range subs {
		close(sub.queue)
		<-sub.done
	}
}
