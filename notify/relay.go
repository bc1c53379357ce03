package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"restro-qr/models"
)

const (
	Exchange = "order_events"

	routingPrefix = "restaurant."

	defaultRetryWait = 2 * time.Second
	defaultMaxWait   = 30 * time.Second
)

// ErrRelayDisconnected is returned by Publish while the broker is unreachable.
var ErrRelayDisconnected = errors.New("notification relay disconnected")

var errDeliveriesClosed = errors.New("delivery channel closed")

// Channel is the subset of *amqp.Channel the relay uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer opens a new broker channel on a new connection.
type Dialer func() (Channel, error)

// Relay carries notifications between service instances over a RabbitMQ
// topic exchange. Publish sends to the broker only; every instance, the
// publisher included, receives the event back in Run and hands it to its
// local Hub, so each staff socket sees an event once.
//
// Losing the broker never stops the relay: Run reconnects with backoff and
// Publish fails fast with ErrRelayDisconnected until it is back.
type Relay struct {
	dial Dialer
	hub  *Hub
	log  *zap.SugaredLogger

	retryWait time.Duration
	maxWait   time.Duration

	mu sync.RWMutex
	ch Channel
}

// NewRelay returns a relay feeding hub. It does not connect; Run does.
func NewRelay(dial Dialer, hub *Hub, log *zap.SugaredLogger) *Relay {
	return &Relay{
		dial:      dial,
		hub:       hub,
		log:       log,
		retryWait: defaultRetryWait,
		maxWait:   defaultMaxWait,
	}
}

// RoutingKey maps a slug to the topic routing key of its events.
func RoutingKey(slug string) string {
	return routingPrefix + slug
}

// Connected reports whether the relay currently holds a broker channel.
func (r *Relay) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ch != nil
}

func (r *Relay) Publish(ctx context.Context, slug, event string) error {
	r.mu.RLock()
	ch := r.ch
	r.mu.RUnlock()
	if ch == nil {
		return fmt.Errorf("publish %s: %w", event, ErrRelayDisconnected)
	}

	body, err := json.Marshal(models.Notification{Event: event, Restaurant: slug})
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, Exchange, RoutingKey(slug), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

// Run connects, binds a private queue to every restaurant's events and
// delivers them to the hub. When the broker goes away it reconnects and
// resumes. It returns only when ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	attempt := 0
	for {
		deliveries, err := r.connect()
		if err != nil {
			attempt++
			wait := r.backoff(attempt)
			r.log.Warnw("rabbitmq connection failed, retrying", "attempt", attempt, "wait", wait, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		attempt = 0

		err = r.consume(ctx, deliveries)
		r.disconnect()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.log.Warnw("rabbitmq connection lost, reconnecting", "error", err)
	}
}

func (r *Relay) connect() (<-chan amqp.Delivery, error) {
	ch, err := r.dial()
	if err != nil {
		return nil, err
	}
	deliveries, err := setup(ch)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	r.mu.Lock()
	r.ch = ch
	r.mu.Unlock()
	return deliveries, nil
}

// setup declares the exchange and an exclusive queue bound to all slugs.
func setup(ch Channel) (<-chan amqp.Delivery, error) {
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, routingPrefix+"#", Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue %s: %w", q.Name, err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", q.Name, err)
	}
	return deliveries, nil
}

func (r *Relay) consume(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	r.log.Infow("notification relay connected", "exchange", Exchange)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			r.handle(d)
		}
	}
}

func (r *Relay) disconnect() {
	r.mu.Lock()
	ch := r.ch
	r.ch = nil
	r.mu.Unlock()
	if ch != nil {
		_ = ch.Close()
	}
}

// backoff grows linearly with attempt and is capped at maxWait.
func (r *Relay) backoff(attempt int) time.Duration {
	wait := time.Duration(attempt) * r.retryWait
	if wait > r.maxWait {
		return r.maxWait
	}
	return wait
}

func (r *Relay) handle(d amqp.Delivery) {
	var n models.Notification
	if err := json.Unmarshal(d.Body, &n); err != nil {
		r.log.Warnw("discarding malformed notification", "routing_key", d.RoutingKey, "error", err)
		return
	}
	// The routing key decides the tenant, the body cannot redirect an event.
	slug := strings.TrimPrefix(d.RoutingKey, routingPrefix)
	if slug == "" || slug == d.RoutingKey || n.Restaurant != slug {
		r.log.Warnw("discarding misrouted notification", "routing_key", d.RoutingKey, "restaurant", n.Restaurant)
		return
	}
	r.hub.Deliver(n)
}

// brokerChannel owns the connection its channel was opened on.
type brokerChannel struct {
	*amqp.Channel
	conn *amqp.Connection
}

func (b brokerChannel) Close() error {
	_ = b.Channel.Close()
	return b.conn.Close()
}

// DialURL returns a Dialer that opens one connection and channel per call.
func DialURL(url string) Dialer {
	return func() (Channel, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open channel: %w", err)
		}
		return brokerChannel{Channel: ch, conn: conn}, nil
	}
}
