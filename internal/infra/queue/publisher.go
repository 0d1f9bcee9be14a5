// Package queue publishes lead lifecycle events to RabbitMQ so downstream
// consumers (analytics, mail sequences) can react to new submissions.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/onedayhr/leadboard/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	ExchangeName = "ex.leads"
	QueueName    = "q.lead-events"
	BindingKey   = "k.lead.*"
)

// Publisher wraps an AMQP connection and channel with the lead-events
// topology declared.
type Publisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *zap.Logger
}

// NewPublisher dials the broker and declares the exchange, queue and
// binding. Returns an error when the broker is unreachable; intake treats a
// nil publisher as "bus disabled".
func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(QueueName, BindingKey, ExchangeName, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, logger: logger}, nil
}

// PublishLeadEvent publishes one event as persistent JSON. The routing key
// follows the event type, so "lead.created" goes out as "k.lead.created".
func (p *Publisher) PublishLeadEvent(ctx context.Context, event *domain.LeadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lead event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		"k."+event.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		p.logger.Warn("queue: publish failed",
			zap.String("type", event.Type),
			zap.Int64("lead_id", int64(event.LeadID)),
			zap.Error(err),
		)
		return &domain.ErrExternalService{Service: "rabbitmq", Err: err}
	}

	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
