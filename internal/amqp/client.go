// Package amqp serves the bridge as an RPC endpoint over RabbitMQ.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"finrec/internal/bridge"
	"finrec/internal/log"
)

const publishTimeout = 5 * time.Second

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	prefetch     int
	logger       *log.Logger
}

func NewClient(url, exchangeName, queueName string, prefetch int, logger *log.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		prefetch:     prefetch,
		logger:       logger.WithComponent(log.ComponentAMQP),
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name, as usual for a direct exchange
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	if err := c.channel.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	return nil
}

// Serve consumes request envelopes and publishes each response to the
// delivery's ReplyTo queue. It returns when ctx is cancelled or the
// delivery channel closes.
func (c *Client) Serve(ctx context.Context, b *bridge.Bridge) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "Started serving bridge requests",
		log.FieldQueue, c.queueName,
		log.FieldExchange, c.exchangeName)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Stopping bridge consumer", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.process(ctx, b, d)
		}
	}
}

func (c *Client) process(ctx context.Context, b *bridge.Bridge, d amqp091.Delivery) {
	fields := log.NewFields().
		WithTransport(log.TransportAMQP).
		WithCorrelationID(d.CorrelationId)

	body, err := handle(ctx, b, d.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "Rejecting unparsable request", fields.WithError(err).ToSlice()...)
		_ = d.Nack(false, false) // reject and don't requeue
		return
	}

	if d.ReplyTo == "" {
		c.logger.WarnContext(ctx, "Request has no reply queue, dropping response", fields.ToSlice()...)
		_ = d.Ack(false)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// Replies go through the default exchange straight to the caller's queue
	if err := c.channel.PublishWithContext(pubCtx, "", d.ReplyTo, false, false, newReply(d, body)); err != nil {
		c.logger.ErrorContext(ctx, "Failed to publish reply", fields.WithError(err).ToSlice()...)
		_ = d.Nack(false, true) // reject and requeue
		return
	}

	_ = d.Ack(false)
	c.logger.DebugContext(ctx, "Replied to bridge request", fields.ToSlice()...)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
