package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     int
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	if exchange != "" {
		return errors.New("expected default exchange")
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed++
	return nil
}

func newTestPublisher(channels ...*fakeChannel) (*AMQPPublisher, *int) {
	dials := 0
	p := NewAMQPPublisher("amqp://test", nil)
	p.dial = func(string) (channel, func() error, error) {
		if dials >= len(channels) {
			return nil, nil, errors.New("broker down")
		}
		ch := channels[dials]
		dials++
		return ch, func() error { return nil }, nil
	}
	return p, &dials
}

func TestPublishDeclaresOnceAndPersists(t *testing.T) {
	ch := &fakeChannel{}
	p, dials := newTestPublisher(ch)

	require.NoError(t, p.Publish(context.Background(), "seating.layout.saved", []byte(`{"a":1}`)))
	require.NoError(t, p.Publish(context.Background(), "seating.layout.saved", []byte(`{"a":2}`)))

	assert.Equal(t, 1, *dials)
	assert.Equal(t, []string{"seating.layout.saved"}, ch.declared)
	assert.Equal(t, []string{"seating.layout.saved", "seating.layout.saved"}, ch.keys)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "application/json", ch.published[1].ContentType)
}

func TestPublishReconnectsAfterFailure(t *testing.T) {
	broken := &fakeChannel{publishErr: errors.New("channel closed")}
	healthy := &fakeChannel{}
	p, dials := newTestPublisher(broken, healthy)

	assert.Error(t, p.Publish(context.Background(), "q", []byte("1")))
	assert.Equal(t, 1, broken.closed)

	require.NoError(t, p.Publish(context.Background(), "q", []byte("2")))
	assert.Equal(t, 2, *dials)
	assert.Equal(t, []string{"q"}, healthy.declared)

	down, _ := newTestPublisher()
	assert.Error(t, down.Publish(context.Background(), "q", nil))
}

func TestLayoutSavedEncode(t *testing.T) {
	body, err := LayoutSaved{
		LayoutID:   "L1",
		Unseated:   map[string]int{"C1": 2},
		OccurredAt: time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
	}.Encode()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "L1", decoded["layoutId"])
	assert.NotContains(t, decoded, "createdBy")
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "q", body))
}
