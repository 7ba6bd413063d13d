package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"

	"pricelist/internal/models"
)

// DefaultQueue receives catalog change events.
const DefaultQueue = "catalog_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  zerolog.Logger
	mu      sync.Mutex // serialises publishes on the shared channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the durable event queue.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info().Str("queue", queue).Msg("rabbitmq client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   queue,
		logger:  logger,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", name, err)
	}
	return q, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishProductEvent publishes a persistent JSON message to the event queue.
func (c *Client) PublishProductEvent(ctx context.Context, event models.ProductEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal product event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug().Str("event", string(event.Type)).Uint("product_id", event.ProductID).Msg("product event published")
	return nil
}

// ConsumeProductEvents delivers queued events to handler until ctx is cancelled or the
// channel closes. Messages are acked on success and requeued when handler fails.
func (c *Client) ConsumeProductEvents(ctx context.Context, handler func(models.ProductEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info().Str("queue", c.queue).Msg("waiting for product events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("RabbitMQ delivery channel closed")
			}
			c.handleDelivery(msg, handler)
		}
	}
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(models.ProductEvent) error) {
	event, err := DecodeProductEvent(msg.Body)
	if err != nil {
		// Undecodable messages would loop forever if requeued.
		c.logger.Error().Err(err).Uint64("delivery_tag", msg.DeliveryTag).Msg("dropping malformed product event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error().Err(nackErr).Uint64("delivery_tag", msg.DeliveryTag).Msg("failed to nack message")
		}
		return
	}

	if err := handler(event); err != nil {
		c.logger.Error().Err(err).Uint64("delivery_tag", msg.DeliveryTag).Msg("error processing product event")
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.Error().Err(nackErr).Uint64("delivery_tag", msg.DeliveryTag).Msg("failed to nack message")
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error().Err(ackErr).Uint64("delivery_tag", msg.DeliveryTag).Msg("failed to ack message")
	}
}

// DecodeProductEvent parses a message body produced by PublishProductEvent.
func DecodeProductEvent(body []byte) (models.ProductEvent, error) {
	var event models.ProductEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.ProductEvent{}, fmt.Errorf("failed to decode product event: %w", err)
	}
	switch event.Type {
	case models.ProductCreated, models.ProductUpdated, models.ProductDeleted:
	default:
		return models.ProductEvent{}, fmt.Errorf("unknown product event type %q", event.Type)
	}
	return event, nil
}
