package workflowinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQDispatcher publishes notification events to a durable topic
// exchange. The routing key is the event type, so consumers can bind to
// "job.#" or "candidate.legal_review.*".
type RabbitMQDispatcher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	timeout  time.Duration
}

func NewRabbitMQDispatcher(url, exchange string) (*RabbitMQDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errx.Wrap(err, "failed to connect to RabbitMQ", errx.TypeExternal)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errx.Wrap(err, "failed to open RabbitMQ channel", errx.TypeExternal)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, errx.Wrap(err, "failed to declare exchange", errx.TypeExternal).
			WithDetail("exchange", exchange)
	}

	logx.Infof("✅ Connected to RabbitMQ, exchange %s", exchange)

	return &RabbitMQDispatcher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		timeout:  5 * time.Second,
	}, nil
}

var _ workflow.Dispatcher = (*RabbitMQDispatcher)(nil)

func (d *RabbitMQDispatcher) Dispatch(ctx context.Context, event workflow.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	d.mu.Lock()
	defer d.mu.Unlock()

	err = d.channel.PublishWithContext(
		ctx,
		d.exchange,         // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Type),
			Body:         body,
		},
	)
	if err != nil {
		return errx.Wrap(err, "failed to publish notification", errx.TypeExternal).
			WithDetail("event", string(event.Type)).
			WithDetail("event_id", event.ID)
	}
	return nil
}

func (d *RabbitMQDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.channel.Close(); err != nil {
		d.conn.Close()
		return err
	}
	return d.conn.Close()
}
