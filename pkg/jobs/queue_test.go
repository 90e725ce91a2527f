package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var processed int32
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&processed, 1)
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 8})
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.NoError(t, q.TryEnqueue(Job{ID: "job", Type: "run"}))
	}
	q.Stop(context.Background())

	assert.EqualValues(t, 5, atomic.LoadInt32(&processed))
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts int32
	done := make(chan struct{})
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop(context.Background())

	require.NoError(t, q.TryEnqueue(Job{ID: "job-1"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestQueueRejectsWhenStopped(t *testing.T) {
	q := NewQueue("stopped", func(context.Context, Job) error { return nil }, QueueConfig{})

	err := q.TryEnqueue(Job{ID: "early"})
	require.ErrorIs(t, err, ErrQueueStopped)

	q.Start(context.Background())
	q.Stop(context.Background())

	err = q.TryEnqueue(Job{ID: "late"})
	require.ErrorIs(t, err, ErrQueueStopped)
}

func TestQueueRejectsWhenFull(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue("full", func(ctx context.Context, job Job) error {
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	require.NoError(t, q.TryEnqueue(Job{ID: "busy"}))
	require.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.TryEnqueue(Job{ID: "buffered"}))

	err := q.TryEnqueue(Job{ID: "overflow"})
	require.ErrorIs(t, err, ErrQueueFull)

	close(release)
	q.Stop(context.Background())
}
