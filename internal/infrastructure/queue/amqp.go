package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/pkg/metrics"
)

const consumerPrefetch = 8

// Dial connects to the broker and declares the durable email queue.
func Dial(url, queue string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", queue, err)
	}
	return conn, nil
}

// publishTimeout bounds a single broker publish, including the wait for a
// reopened channel.
const publishTimeout = 5 * time.Second

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// AMQPOutbox publishes email jobs as persistent JSON messages. A channel
// closed by the broker is replaced on the next Publish.
type AMQPOutbox struct {
	mu      sync.Mutex
	ch      amqpChannel
	open    func() (amqpChannel, error)
	queue   string
	timeout time.Duration
}

func NewAMQPOutbox(conn *amqp.Connection, queue string) (*AMQPOutbox, error) {
	return newAMQPOutbox(func() (amqpChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}, queue)
}

func newAMQPOutbox(open func() (amqpChannel, error), queue string) (*AMQPOutbox, error) {
	ch, err := open()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	return &AMQPOutbox{ch: ch, open: open, queue: queue, timeout: publishTimeout}, nil
}

// Publish never outlives publishTimeout and ignores cancellation of ctx, so
// an aborted request still gets its email queued.
func (o *AMQPOutbox) Publish(ctx context.Context, job ports.EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode email job: %w", err)
	}

	ch, err := o.channel()
	if err != nil {
		metrics.EmailJobsDroppedTotal.WithLabelValues("broker").Inc()
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, "", o.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		metrics.EmailJobsDroppedTotal.WithLabelValues("broker").Inc()
		return fmt.Errorf("publish email job: %w", err)
	}
	return nil
}

func (o *AMQPOutbox) channel() (amqpChannel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ch != nil && !o.ch.IsClosed() {
		return o.ch, nil
	}
	ch, err := o.open()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq reopen channel: %w", err)
	}
	o.ch = ch
	return ch, nil
}

func (o *AMQPOutbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ch == nil || o.ch.IsClosed() {
		return nil
	}
	return o.ch.Close()
}

// Consumer drains the email queue into a Mailer. Undecodable messages are
// dropped; delivery failures are requeued once and then dropped.
type Consumer struct {
	conn   *amqp.Connection
	queue  string
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewConsumer(conn *amqp.Connection, queue string, mailer ports.Mailer, log zerolog.Logger) *Consumer {
	return &Consumer{conn: conn, queue: queue, mailer: mailer, log: log}
}

// Run blocks until ctx is cancelled or the broker closes the channel.
func (c *Consumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		return fmt.Errorf("rabbitmq qos: %w", err)
	}
	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var job ports.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		c.log.Error().Err(err).Msg("discarding malformed email job")
		_ = d.Nack(false, false)
		return
	}

	if _, err := c.mailer.SendTemplate(ctx, job); err != nil {
		c.log.Error().Err(err).
			Str("template", job.Template).
			Str("to", job.To).
			Bool("redelivered", d.Redelivered).
			Msg("email delivery failed")
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}
