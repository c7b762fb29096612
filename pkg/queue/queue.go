package queue

import (
	"sync"
	"time"
)

// RetryRequest is a downstream HTTP call that failed and should be replayed
// once RetryAt has passed. The gateway queues stock-restoring cancellations
// here when the order service is unreachable.
type RetryRequest struct {
	ID         string
	Method     string
	URL        string
	Headers    map[string]string
	Body       []byte
	RetryAt    time.Time
	RetryCount int
	MaxRetries int
}

type RetryQueue struct {
	items []*RetryRequest
	mu    sync.Mutex
}

func NewRetryQueue() *RetryQueue {
	return &RetryQueue{
		items: make([]*RetryRequest, 0),
	}
}

func (q *RetryQueue) Enqueue(req *RetryRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, req)
}

// Dequeue removes and returns the first request whose retry time has come,
// or nil when nothing is due yet.
func (q *RetryQueue) Dequeue() *RetryRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	for i, req := range q.items {
		if !req.RetryAt.After(now) {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return req
		}
	}
	return nil
}

// Requeue puts a failed request back with an increased attempt count and the
// given backoff. It reports false once MaxRetries is exhausted.
func (q *RetryQueue) Requeue(req *RetryRequest, backoff time.Duration) bool {
	req.RetryCount++
	if req.RetryCount >= req.MaxRetries {
		return false
	}
	req.RetryAt = time.Now().Add(backoff)
	q.Enqueue(req)
	return true
}

func (q *RetryQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *RetryQueue) Pending() []*RetryRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	result := make([]*RetryRequest, len(q.items))
	copy(result, q.items)
	return result
}
