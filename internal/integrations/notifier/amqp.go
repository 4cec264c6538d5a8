package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// AMQPEmitter публикует события в topic exchange RabbitMQ.
// Routing key - тип события, MessageId - идентификатор события.
// Канал работает в режиме publisher confirms: Emit ждет подтверждения брокера.
type AMQPEmitter struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	timeout  time.Duration
	closed   bool
}

// NewAMQPEmitter подключается к брокеру и объявляет durable topic exchange
func NewAMQPEmitter(url, exchange string, timeout time.Duration) (*AMQPEmitter, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: enable publisher confirms: %v", ErrConnect, err)
	}

	return &AMQPEmitter{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		timeout:  timeout,
	}, nil
}

// Emit публикует событие
func (p *AMQPEmitter) Emit(ctx context.Context, event domain.BookingEvent) error {
	body, err := json.Marshal(FromDomainEvent(event))
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrPublish, event.Type, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	dc, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt.UTC(),
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %s booking=%d: %v", ErrPublish, event.Type, event.BookingID, err)
	}

	if err := awaitConfirm(ctx, dc); err != nil {
		return fmt.Errorf("%w: %s booking=%d: %w", ErrPublish, event.Type, event.BookingID, err)
	}

	return nil
}

// confirmation подтверждение публикации от брокера
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// awaitConfirm ждет ack брокера. nack и истечение ctx считаются неудачной публикацией.
func awaitConfirm(ctx context.Context, c confirmation) error {
	if c == nil {
		return ErrNotConfirmed
	}
	acked, err := c.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotConfirmed, err)
	}
	if !acked {
		return fmt.Errorf("%w: nack", ErrNotConfirmed)
	}
	return nil
}

// Close закрывает канал и соединение
func (p *AMQPEmitter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
