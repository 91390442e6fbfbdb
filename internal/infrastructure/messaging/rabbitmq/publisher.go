package rabbitmq

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "registry.events"

	// Wait window for Return / Confirm
	publishWait = 150 * time.Millisecond
)

// PublishError is a structured broker failure carrying a short machine code
// alongside the human-readable reason.
type PublishError struct {
	Code   string
	Reason string
}

func (e *PublishError) Error() string     { return "rabbitmq publish: " + e.Reason }
func (e *PublishError) ErrorCode() string { return e.Code }

// Publisher delivers admin notifications to a topic exchange with publisher
// confirms and mandatory routing. It implements the notify.Transport port.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	// Topic exchange, declared idempotently.
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	// enable publisher confirms
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.conn = conn
	p.ch = ch

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

// Publish sends one notification to the destination routing key and returns
// the message id once the broker accepts it. Mandatory routing turns a
// missing binding into a NO_ROUTE failure instead of a silent drop.
func (p *Publisher) Publish(ctx context.Context, destination, subject, body string) (string, error) {
	if strings.TrimSpace(destination) == "" {
		return "", &PublishError{Code: "BAD_DESTINATION", Reason: "missing destination routing key"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return "", &PublishError{Code: "NOT_READY", Reason: "publisher channel not ready"}
	}

	messageID := uuid.NewString()

	err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		destination,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:   messageID,
			ContentType: "text/plain; charset=utf-8",
			Timestamp:   time.Now().UTC(),
			Headers:     amqp.Table{"subject": subject},
			Body:        []byte(body),
		},
	)
	if err != nil {
		return "", err
	}

	// Wait for either Return (unroutable) or Confirm
	select {
	case ret := <-p.returnCh:
		return "", &PublishError{Code: "NO_ROUTE", Reason: "unroutable destination " + ret.RoutingKey}
	case conf := <-p.confirmCh:
		if !conf.Ack {
			return "", &PublishError{Code: "NACK", Reason: "broker rejected publish"}
		}
		return messageID, nil
	case <-time.After(publishWait):
		// best-effort window; broker silence counts as accepted
		return messageID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
