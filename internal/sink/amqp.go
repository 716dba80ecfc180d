package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const (
	EventsExchange        = "ecommerce.events"
	OrderPlacedRoutingKey = "storefront.order.placed.v1"
)

// Publisher is the part of *amqp.Channel the sink needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQP publishes OrderPlaced events to the shared topic exchange. Sequence
// numbers are per process and start at 1.
type AMQP struct {
	pub Publisher
	seq atomic.Int64
	now func() time.Time
}

func NewAMQP(pub Publisher) *AMQP {
	return &AMQP{pub: pub, now: time.Now}
}

// DialAMQP connects, opens a channel and declares the events exchange.
// The returned close func releases both.
func DialAMQP(url string) (*AMQP, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}

	closeFn := func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return NewAMQP(ch), closeFn, nil
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

func (a *AMQP) Name() string { return "amqp" }

func (a *AMQP) Submit(ctx context.Context, p order.Payload) error {
	ev := BuildOrderPlacedEvent(p, EnvelopeOptions{
		Sequence:      a.seq.Add(1),
		CorrelationID: middleware.GetCorrelationID(ctx),
		OccurredAt:    a.now().UTC(),
	})

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", OrderPlacedEventName, err)
	}
	return a.publishJSON(ctx, ev, body)
}

func (a *AMQP) publishJSON(ctx context.Context, ev EventEnvelope, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return a.pub.PublishWithContext(
		pubCtx,
		EventsExchange,
		OrderPlacedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     ev.EventID,
			CorrelationId: ev.CorrelationID,
			Timestamp:     ev.OccurredAt,
			Type:          ev.EventName,
			Body:          body,
		},
	)
}
