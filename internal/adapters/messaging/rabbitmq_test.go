package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventstage/internal/domain"
)

type binding struct {
	queue    string
	key      string
	exchange string
}

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

// fakeChannel records topology declarations and publishes.
type fakeChannel struct {
	exchanges  []string
	queues     []string
	bindings   []binding
	published  []published
	publishErr error
	declareErr error
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	if f.declareErr != nil {
		return f.declareErr
	}
	if kind != "topic" {
		return errors.New("unexpected exchange kind: " + kind)
	}
	if !durable {
		return errors.New("exchange must be durable")
	}
	f.exchanges = append(f.exchanges, name)
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	f.queues = append(f.queues, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	f.bindings = append(f.bindings, binding{queue: name, key: key, exchange: exchange})
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPublisher_DeclaresTopology(t *testing.T) {
	ch := &fakeChannel{}
	_, err := NewPublisher(ch, "events", []string{"booking-service", "notification-service"}, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"events"}, ch.exchanges)
	assert.Equal(t, []string{"booking-service", "notification-service"}, ch.queues)

	// Each queue is bound to every routing key.
	require.Len(t, ch.bindings, 6)
	for _, queue := range ch.queues {
		for _, key := range []string{"event.published", "event.updated", "event.cancelled"} {
			assert.Contains(t, ch.bindings, binding{queue: queue, key: key, exchange: "events"})
		}
	}
}

func TestNewPublisher_Errors(t *testing.T) {
	t.Run("nil channel", func(t *testing.T) {
		_, err := NewPublisher(nil, "events", nil, discardLogger())
		require.Error(t, err)
	})

	t.Run("declaration failure", func(t *testing.T) {
		ch := &fakeChannel{declareErr: errors.New("access refused")}
		_, err := NewPublisher(ch, "events", []string{"booking-service"}, discardLogger())
		require.Error(t, err)
	})
}

func TestPublisher_EventPublished(t *testing.T) {
	ch := &fakeChannel{}
	pub, err := NewPublisher(ch, "events", []string{"booking-service"}, discardLogger())
	require.NoError(t, err)

	msg := domain.EventPublishedMessage{
		EventID:          "ev-1",
		SpeakerID:        "user-1",
		Name:             "GopherConf",
		Capacity:         400,
		BookingStartDate: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
		BookingEndDate:   time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.EventPublished(context.Background(), msg))

	require.Len(t, ch.published, 1)
	p := ch.published[0]
	assert.Equal(t, "events", p.exchange)
	assert.Equal(t, "event.published", p.key)
	assert.Equal(t, "application/json", p.msg.ContentType)
	assert.Equal(t, amqp.Persistent, p.msg.DeliveryMode)

	var decoded domain.EventPublishedMessage
	require.NoError(t, json.Unmarshal(p.msg.Body, &decoded))
	assert.Equal(t, "ev-1", decoded.EventID)
	assert.Equal(t, 400, decoded.Capacity)
}

func TestPublisher_EventUpdated(t *testing.T) {
	ch := &fakeChannel{}
	pub, err := NewPublisher(ch, "events", nil, discardLogger())
	require.NoError(t, err)

	msg := domain.EventUpdatedMessage{EventID: "ev-1", UpdatedFields: []string{"name", "bookingEndDate"}}
	require.NoError(t, pub.EventUpdated(context.Background(), msg))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "event.updated", ch.published[0].key)

	var decoded domain.EventUpdatedMessage
	require.NoError(t, json.Unmarshal(ch.published[0].msg.Body, &decoded))
	assert.Equal(t, []string{"name", "bookingEndDate"}, decoded.UpdatedFields)
}

func TestPublisher_EventCancelled(t *testing.T) {
	ch := &fakeChannel{}
	pub, err := NewPublisher(ch, "events", nil, discardLogger())
	require.NoError(t, err)

	require.NoError(t, pub.EventCancelled(context.Background(), domain.EventCancelledMessage{EventID: "ev-1"}))
	require.Len(t, ch.published, 1)
	assert.Equal(t, "event.cancelled", ch.published[0].key)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{}
	pub, err := NewPublisher(ch, "events", nil, discardLogger())
	require.NoError(t, err)

	ch.publishErr = errors.New("channel closed")
	err = pub.EventCancelled(context.Background(), domain.EventCancelledMessage{EventID: "ev-1"})
	require.Error(t, err)
	assert.Empty(t, ch.published)
}

func TestUnavailablePublisher(t *testing.T) {
	pub := NewUnavailablePublisher(discardLogger())
	ctx := context.Background()

	require.Error(t, pub.EventPublished(ctx, domain.EventPublishedMessage{EventID: "ev-1"}))
	require.Error(t, pub.EventUpdated(ctx, domain.EventUpdatedMessage{EventID: "ev-1"}))
	require.Error(t, pub.EventCancelled(ctx, domain.EventCancelledMessage{EventID: "ev-1"}))
}
