package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-seating-api/pkg/events"
	"github.com/noah-isme/sma-seating-api/pkg/jobs"
)

// JobLayoutSaved is the job type carrying a layout saved event to the broker.
const JobLayoutSaved = "seating.layout.saved"

type jobQueue interface {
	Handle(jobType string, handler jobs.Handler)
	Enqueue(job jobs.Job) error
}

// LayoutEventDispatcher hands layout events to the background queue, which publishes them to the
// broker with retries. Request handling never waits on the broker.
type LayoutEventDispatcher struct {
	queue     jobQueue
	publisher events.Publisher
	topic     string
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewLayoutEventDispatcher registers the publishing handler on queue.
func NewLayoutEventDispatcher(queue jobQueue, publisher events.Publisher, topic string, metrics *MetricsService, logger *zap.Logger) *LayoutEventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topic == "" {
		topic = JobLayoutSaved
	}
	d := &LayoutEventDispatcher{queue: queue, publisher: publisher, topic: topic, metrics: metrics, logger: logger}
	queue.Handle(JobLayoutSaved, d.publish)
	return d
}

// LayoutSaved enqueues the event. Failures are logged and counted, never returned.
func (d *LayoutEventDispatcher) LayoutSaved(_ context.Context, event events.LayoutSaved) {
	if d == nil {
		return
	}
	body, err := event.Encode()
	if err != nil {
		d.metrics.RecordEvent("dropped")
		d.logger.Error("encode layout event", zap.String("layout_id", event.LayoutID), zap.Error(err))
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: JobLayoutSaved, Payload: body}
	if err := d.queue.Enqueue(job); err != nil {
		d.metrics.RecordEvent("dropped")
		d.logger.Warn("layout event not queued", zap.String("layout_id", event.LayoutID), zap.Error(err))
		return
	}
	d.metrics.RecordEvent("queued")
}

func (d *LayoutEventDispatcher) publish(ctx context.Context, job jobs.Job) error {
	if err := d.publisher.Publish(ctx, d.topic, job.Payload); err != nil {
		d.metrics.RecordEvent("failed")
		return err
	}
	d.metrics.RecordEvent("published")
	d.logger.Debug("layout event published", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	return nil
}
