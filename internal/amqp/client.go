package amqp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"budget/internal/core"
	"budget/internal/log"
)

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// dialFunc opens a connection and returns a ready channel plus a closer for
// the connection. It must give up when ctx is done.
type dialFunc func(ctx context.Context, url, exchange string) (channel, func() error, error)

// dialTimeout bounds a single connection attempt, TCP and AMQP handshake
// included. Reconnects run inside UI event flows and must not stall them.
const dialTimeout = 5 * time.Second

// Publisher sends entry events to a topic exchange. It reconnects once per
// publish when the broker connection has dropped.
type Publisher struct {
	mu         sync.Mutex
	url        string
	exchange   string
	routingKey string
	dial       dialFunc
	timeout    time.Duration

	channel   channel
	closeConn func() error

	logger *log.Logger
}

// NewPublisher dials the broker, retrying with exponential backoff until
// ctx is done or maxAttempts is reached.
func NewPublisher(ctx context.Context, url, exchange, routingKey string, maxAttempts int, logger *log.Logger) (*Publisher, error) {
	if logger == nil {
		logger = log.Discard()
	}
	p := &Publisher{
		url:        url,
		exchange:   exchange,
		routingKey: routingKey,
		dial:       dialBroker,
		timeout:    dialTimeout,
		logger:     logger.WithComponent(log.ComponentAMQP),
	}
	if err := p.connectWithRetry(ctx, maxAttempts); err != nil {
		return nil, err
	}
	return p, nil
}

func dialBroker(ctx context.Context, url, exchange string) (channel, func() error, error) {
	conn, err := amqp091.DialConfig(url, amqp091.Config{
		Heartbeat: 10 * time.Second,
		Dial: func(network, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: dialTimeout}
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// Cleared by the client once the handshake completes.
			if err := conn.SetDeadline(time.Now().Add(dialTimeout)); err != nil {
				conn.Close()
				return nil, err
			}
			return conn, nil
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}

	return ch, conn.Close, nil
}

func (p *Publisher) connectWithRetry(ctx context.Context, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := exponentialBackoff(attempt - 1)
			p.logger.WarnContext(ctx, "Retrying AMQP connection",
				"attempt", attempt+1,
				"wait", wait.String(),
				log.FieldError, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if lastErr = p.connect(ctx); lastErr == nil {
			p.logger.InfoContext(ctx, "Connected to AMQP broker", "exchange", p.exchange)
			return nil
		}
	}
	return fmt.Errorf("connect AMQP after %d attempts: %w", maxAttempts, lastErr)
}

func (p *Publisher) connect(ctx context.Context) error {
	timeout := p.timeout
	if timeout <= 0 {
		timeout = dialTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch, closeConn, err := p.dial(ctx, p.url, p.exchange)
	if err != nil {
		return err
	}
	p.channel = ch
	p.closeConn = closeConn
	return nil
}

// EntryAdded publishes an entry.added event
func (p *Publisher) EntryAdded(ctx context.Context, e core.Entry, s core.Summary) error {
	return p.Publish(ctx, NewEntryAddedEvent(e, s))
}

// EntryDeleted publishes an entry.deleted event
func (p *Publisher) EntryDeleted(ctx context.Context, c core.Category, id int, s core.Summary) error {
	return p.Publish(ctx, NewEntryDeletedEvent(c, id, s))
}

// Publish sends one event. The routing key is "<routing key>.<event type>".
func (p *Publisher) Publish(ctx context.Context, ev *EntryEvent) error {
	body, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.publish(ctx, ev, body)
	if isConnectionError(err) {
		p.logger.WarnContext(ctx, "AMQP connection lost, reconnecting", log.FieldError, err)
		p.closeLocked()
		if cerr := p.connect(ctx); cerr != nil {
			return fmt.Errorf("reconnect AMQP: %w", cerr)
		}
		err = p.publish(ctx, ev, body)
	}
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.DebugContext(ctx, "Published entry event",
		log.FieldEventID, ev.ID,
		"type", ev.Type,
		log.FieldCategory, ev.Category,
		log.FieldEntryID, ev.EntryID)
	return nil
}

func (p *Publisher) publish(ctx context.Context, ev *EntryEvent, body []byte) error {
	if p.channel == nil {
		return amqp091.ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		p.exchange,               // exchange
		p.routingKey+"."+ev.Type, // routing key
		false,                    // mandatory
		false,                    // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    ev.ID,
			Type:         ev.Type,
			Timestamp:    ev.Timestamp,
			Body:         body,
		},
	)
}

// Close releases the channel and the connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *Publisher) closeLocked() error {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.closeConn != nil {
		err := p.closeConn()
		p.closeConn = nil
		return err
	}
	return nil
}

// exponentialBackoff returns 1s, 2s, 4s ... capped at 30s.
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 5 {
		return 30 * time.Second
	}
	d := time.Second << uint(attempt)
	if d > 30*time.Second {
		return 30 * time.Second
	}
	return d
}

// isConnectionError reports whether err means the broker link is gone.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
