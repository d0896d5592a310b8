// Package notify holds the transient toast messages shown over every screen.
package notify

import (
	"sync"
	"time"
)

// Kind is the severity of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// DefaultTTL is how long a toast stays visible unless dismissed.
const DefaultTTL = 4 * time.Second

// Toast is one notification. IDs increase monotonically within a Queue.
type Toast struct {
	ID        int64
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Queue is a FIFO of visible toasts. It is safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	nextID int64
	toasts []Toast
	now    func() time.Time
}

// NewQueue returns an empty queue using the wall clock.
func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// Push appends a toast and returns it.
func (q *Queue) Push(kind Kind, msg string) Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	t := Toast{ID: q.nextID, Kind: kind, Message: msg, CreatedAt: q.now()}
	q.toasts = append(q.toasts, t)
	return t
}

func (q *Queue) Success(msg string) Toast { return q.Push(KindSuccess, msg) }
func (q *Queue) Warn(msg string) Toast    { return q.Push(KindWarning, msg) }
func (q *Queue) Error(msg string) Toast   { return q.Push(KindError, msg) }

// Dismiss removes the toast with id. It reports whether one was removed.
func (q *Queue) Dismiss(id int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i:i], q.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the visible toasts, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast(nil), q.toasts...)
}

// Latest returns the newest toast.
func (q *Queue) Latest() (Toast, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.toasts) == 0 {
		return Toast{}, false
	}
	return q.toasts[len(q.toasts)-1], true
}

// Expire drops toasts older than ttl as of now and returns how many went.
func (q *Queue) Expire(now time.Time, ttl time.Duration) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Sub(t.CreatedAt) < ttl {
			kept = append(kept, t)
		}
	}
	dropped := len(q.toasts) - len(kept)
	q.toasts = kept
	return dropped
}

// Clear drops every toast.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = nil
}
