// Package messaging delivers event lifecycle notifications over RabbitMQ:
// one durable topic exchange, one durable queue per downstream consumer,
// persistent JSON messages.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"eventstage/internal/domain"
)

// routingKeys are the three lifecycle notification kinds. Every consumer
// queue is bound to all of them; consumers filter by message shape.
var routingKeys = []string{
	domain.RoutingKeyEventPublished,
	domain.RoutingKeyEventUpdated,
	domain.RoutingKeyEventCancelled,
}

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type publisher struct {
	ch       Channel
	exchange string
	logger   *slog.Logger
}

// NewPublisher declares the topology (idempotent: durable declarations may be
// repeated on every restart) and returns a LifecyclePublisher. consumerQueues
// names the downstream consumers; each gets one durable queue bound to all
// routing keys.
func NewPublisher(ch Channel, exchange string, consumerQueues []string, logger *slog.Logger) (domain.LifecyclePublisher, error) {
	if ch == nil {
		return nil, fmt.Errorf("amqp channel is nil")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	for _, queue := range consumerQueues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("declare queue %s: %w", queue, err)
		}
		for _, key := range routingKeys {
			if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
				return nil, fmt.Errorf("bind queue %s to %s: %w", queue, key, err)
			}
		}
	}
	return &publisher{ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *publisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", routingKey, err)
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.logger.DebugContext(ctx, "lifecycle notification published",
		"routing_key", routingKey, "exchange", p.exchange)
	return nil
}

func (p *publisher) EventPublished(ctx context.Context, msg domain.EventPublishedMessage) error {
	return p.publish(ctx, domain.RoutingKeyEventPublished, msg)
}

func (p *publisher) EventUpdated(ctx context.Context, msg domain.EventUpdatedMessage) error {
	return p.publish(ctx, domain.RoutingKeyEventUpdated, msg)
}

func (p *publisher) EventCancelled(ctx context.Context, msg domain.EventCancelledMessage) error {
	return p.publish(ctx, domain.RoutingKeyEventCancelled, msg)
}

// Connect dials the broker and opens a channel. The channel is opened once
// and shared; amqp091-go serializes publishes on it.
func Connect(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open amqp channel: %w", err)
	}
	return conn, ch, nil
}

// NewUnavailablePublisher returns a LifecyclePublisher whose publishes always
// fail. Used when no broker is configured so that state changes requiring
// notification are reported as failed rather than silently unnotified.
func NewUnavailablePublisher(logger *slog.Logger) domain.LifecyclePublisher {
	return unavailablePublisher{logger: logger}
}

type unavailablePublisher struct {
	logger *slog.Logger
}

func (u unavailablePublisher) fail(routingKey string) error {
	u.logger.Error("lifecycle publish attempted without a broker channel", "routing_key", routingKey)
	return fmt.Errorf("message broker channel unavailable")
}

func (u unavailablePublisher) EventPublished(ctx context.Context, msg domain.EventPublishedMessage) error {
	return u.fail(domain.RoutingKeyEventPublished)
}

func (u unavailablePublisher) EventUpdated(ctx context.Context, msg domain.EventUpdatedMessage) error {
	return u.fail(domain.RoutingKeyEventUpdated)
}

func (u unavailablePublisher) EventCancelled(ctx context.Context, msg domain.EventCancelledMessage) error {
	return u.fail(domain.RoutingKeyEventCancelled)
}
