package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDequeueReturnsDueRequest(t *testing.T) {
	q := NewRetryQueue()
	q.Enqueue(&RetryRequest{ID: "a", RetryAt: time.Now().Add(-time.Second)})

	req := q.Dequeue()
	assert.NotNil(t, req)
	assert.Equal(t, "a", req.ID)
	assert.Equal(t, 0, q.Size())
}

func TestDequeueSkipsFutureRequest(t *testing.T) {
	q := NewRetryQueue()
	q.Enqueue(&RetryRequest{ID: "later", RetryAt: time.Now().Add(time.Hour)})

	assert.Nil(t, q.Dequeue())
	assert.Equal(t, 1, q.Size())
}

func TestDequeuePicksFirstDue(t *testing.T) {
	q := NewRetryQueue()
	q.Enqueue(&RetryRequest{ID: "future", RetryAt: time.Now().Add(time.Hour)})
	q.Enqueue(&RetryRequest{ID: "due", RetryAt: time.Now().Add(-time.Minute)})

	req := q.Dequeue()
	assert.NotNil(t, req)
	assert.Equal(t, "due", req.ID)
	assert.Equal(t, 1, q.Size())
}

func TestRequeueExhaustsAttempts(t *testing.T) {
	q := NewRetryQueue()
	req := &RetryRequest{ID: "a", MaxRetries: 2}

	assert.True(t, q.Requeue(req, 0))
	assert.Equal(t, 1, req.RetryCount)
	assert.Equal(t, 1, q.Size())

	taken := q.Dequeue()
	assert.NotNil(t, taken)
	assert.False(t, q.Requeue(taken, 0))
	assert.Equal(t, 0, q.Size())
}

func TestPendingCopies(t *testing.T) {
	q := NewRetryQueue()
	q.Enqueue(&RetryRequest{ID: "a", RetryAt: time.Now().Add(time.Hour)})
	q.Enqueue(&RetryRequest{ID: "b", RetryAt: time.Now().Add(time.Hour)})

	pending := q.Pending()
	assert.Len(t, pending, 2)
	assert.Equal(t, 2, q.Size())
}
