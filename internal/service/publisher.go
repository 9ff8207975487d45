// Package service provides helpers that publish domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/pizza-service/internal/queue"
)

// Publisher sends events to the broker at URL.  A connection is opened per
// publish; order volume does not justify a pooled channel.
type Publisher struct {
	URL string
	log *slog.Logger
}

func NewPublisher(url string) *Publisher {
	return &Publisher{URL: url, log: slog.Default().With("module", "publisher")}
}

// PublishOrderPlaced publishes ev to the order.placed queue as a persistent
// message.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event failed", "error", err)
		return err
	}
	return p.publish(ctx, queue.OrderPlacedQueue, body)
}

func (p *Publisher) publish(ctx context.Context, queueName string, body []byte) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.log.Warn("dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.log.Warn("queue declare failed", "queue", queueName, "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.log.Warn("publish failed", "queue", queueName, "error", err)
		return err
	}
	return nil
}
