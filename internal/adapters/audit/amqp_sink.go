package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
)

const (
	contentTypeJSON = "application/json"
	dialTimeout     = 3 * time.Second
	publishTimeout  = 5 * time.Second
)

// Publisher is the part of an AMQP channel the sink needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

// AMQPSink publishes audit events as JSON to a topic exchange. The routing key is
// audit.<entity type>.<kind>, e.g. audit.journal_header.posted.
type AMQPSink struct {
	publisher Publisher
	exchange  string
}

// NewAMQPSink declares exchange as a durable topic exchange on publisher.
func NewAMQPSink(publisher Publisher, exchange string) (*AMQPSink, error) {
	if err := publisher.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare audit exchange %s: %w", exchange, err)
	}
	return &AMQPSink{publisher: publisher, exchange: exchange}, nil
}

var _ portssvc.AuditSink = (*AMQPSink)(nil)

// RoutingKey returns the routing key an event is published with.
func RoutingKey(event domain.AuditEvent) string {
	return fmt.Sprintf("audit.%s.%s", event.EntityType, event.Kind)
}

// Emit publishes one event. The message id is the event id so consumers can
// drop redeliveries.
func (s *AMQPSink) Emit(ctx context.Context, event domain.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode audit event %s: %w", event.EventID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	key := RoutingKey(event)
	err = s.publisher.PublishWithContext(ctx, s.exchange, key, false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish audit event %s: %w", event.EventID, err)
	}
	logging.FromContext(ctx).Debug("Published audit event", "routing_key", key, "event_id", event.EventID)
	return nil
}

// Connection owns the broker connection and the channel the sink publishes on.
type Connection struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

// Dial connects to the broker at uri and opens a publishing channel.
func Dial(uri string) (*Connection, error) {
	conn, err := amqp.DialConfig(uri, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return &Connection{conn: conn, Channel: ch}, nil
}

// Close closes the channel and the connection.
func (c *Connection) Close() error {
	if err := c.Channel.Close(); err != nil && !c.conn.IsClosed() {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
