package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-seating-api/pkg/events"
	"github.com/noah-isme/sma-seating-api/pkg/jobs"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	topics   []string
	bodies   [][]byte
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.bodies = append(p.bodies, body)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bodies)
}

func TestLayoutEventDispatcherPublishesWithRetry(t *testing.T) {
	metrics := NewMetricsService()
	queue := jobs.NewQueue("events", jobs.QueueConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	publisher := &recordingPublisher{failures: 1}
	dispatcher := NewLayoutEventDispatcher(queue, publisher, "seating.layout.saved", metrics, nil)
	queue.Start(context.Background())
	defer queue.Stop()

	dispatcher.LayoutSaved(context.Background(), events.LayoutSaved{LayoutID: "L1"})

	require.Eventually(t, func() bool { return publisher.published() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"seating.layout.saved"}, publisher.topics)
	assert.Contains(t, string(publisher.bodies[0]), `"layoutId":"L1"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.eventsPublished.WithLabelValues("queued")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.eventsPublished.WithLabelValues("failed")))
}

func TestLayoutEventDispatcherDropsWhenQueueStopped(t *testing.T) {
	metrics := NewMetricsService()
	queue := jobs.NewQueue("events", jobs.QueueConfig{})
	dispatcher := NewLayoutEventDispatcher(queue, events.NopPublisher{}, "", metrics, nil)

	dispatcher.LayoutSaved(context.Background(), events.LayoutSaved{LayoutID: "L2"})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.eventsPublished.WithLabelValues("dropped")))

	var nilDispatcher *LayoutEventDispatcher
	nilDispatcher.LayoutSaved(context.Background(), events.LayoutSaved{})
}
