package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/logger"
)

// DefaultExchange is the topic exchange lifecycle events are published to
const DefaultExchange = "interview_updates"

// AMQPPublisher publishes events to a RabbitMQ topic exchange.
// Routing keys are "interview.<session id>.<event type>".
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
	log      *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher dials url and declares a durable topic exchange
func NewAMQPPublisher(url, exchange string, log *zap.Logger) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, log: logger.OrNop(log)}, nil
}

// RoutingKey returns the routing key used for ev
func RoutingKey(ev Event) string {
	return fmt.Sprintf("interview.%s.%s", ev.SessionID, ev.Type)
}

// Publish sends ev as a persistent JSON message
func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(
		p.exchange,
		RoutingKey(ev),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.At,
			Type:         string(ev.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}

	p.log.Debug("event published",
		zap.String("type", string(ev.Type)),
		zap.String(logger.FieldSession, ev.SessionID),
	)
	return nil
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.ch != nil {
		firstErr = p.ch.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
