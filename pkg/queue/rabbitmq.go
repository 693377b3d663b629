package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"readverse/pkg/config"
	"readverse/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	WalletEventsExchange = "wallet_events"
	AuditQueueName       = "wallet_audit_queue"
)

// Event types published after a money flow commits.
const (
	EventTopupApproved       = "topup.approved"
	EventTopupRejected       = "topup.rejected"
	EventWalletCredited      = "wallet.credited"
	EventDonationSent        = "donation.sent"
	EventEntitlementGranted  = "entitlement.granted"
	EventWithdrawalRequested = "withdrawal.requested"
	EventWithdrawalResolved  = "withdrawal.resolved"
)

type Event struct {
	Type        string            `json:"type"`
	UserID      string            `json:"user_id"`
	Amount      int               `json:"amount,omitempty"`
	ReferenceID string            `json:"reference_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		WalletEventsExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		AuditQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// Audit consumers see every wallet event.
	if err := channel.QueueBind(AuditQueueName, "#", WalletEventsExchange, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
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

// PublishEvent routes the event by its type on the wallet events exchange.
func (c *Client) PublishEvent(ctx context.Context, event Event) error {
	msg, err := buildPublishing(event)
	if err != nil {
		return err
	}

	if err := c.channel.PublishWithContext(ctx, WalletEventsExchange, event.Type, false, false, msg); err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish %s for user %s: %v", event.Type, event.UserID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published %s for user %s", event.Type, event.UserID)
	return nil
}

// ConsumeEvents delivers every wallet event to handler. Malformed messages are
// dropped; handler failures are requeued.
func (c *Client) ConsumeEvents(handler func(event Event) error) error {
	msgs, err := c.channel.Consume(
		AuditQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from %s", AuditQueueName)

	go func() {
		for msg := range msgs {
			var event Event
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal event: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for %s: %v", event.Type, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

func buildPublishing(event Event) (amqp.Publishing, error) {
	if event.Type == "" {
		return amqp.Publishing{}, fmt.Errorf("event type is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
	}, nil
}
