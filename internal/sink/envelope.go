package sink

import (
	"cmp"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

const (
	OrderPlacedEventName    = "OrderPlaced"
	OrderPlacedEventVersion = 1
	OrderPlacedSchema       = "contracts/events/storefront/OrderPlaced.v1.enveloped.schema.json"
	StorefrontProducer      = "storefront"
)

// EventEnvelope wraps an order record for consumers on the events exchange.
type EventEnvelope struct {
	EventName     string        `json:"eventName"`
	EventVersion  int           `json:"eventVersion"`
	EventID       string        `json:"eventId"`
	CorrelationID string        `json:"correlationId,omitempty"`
	Producer      string        `json:"producer"`
	PartitionKey  string        `json:"partitionKey"`
	Sequence      int64         `json:"sequence"`
	OccurredAt    time.Time     `json:"occurredAt"`
	Schema        string        `json:"schema"`
	Payload       order.Payload `json:"payload"`
}

// EnvelopeOptions overrides envelope metadata. Zero fields get defaults.
type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	CorrelationID string
	EventID       string
	OccurredAt    time.Time
}

// BuildOrderPlacedEvent keys events by customer phone unless told otherwise,
// so one customer's orders land on the same partition in order.
func BuildOrderPlacedEvent(p order.Payload, opts EnvelopeOptions) EventEnvelope {
	at := opts.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	id := opts.EventID
	if id == "" {
		id = uuid.NewString()
	}

	return EventEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       id,
		CorrelationID: opts.CorrelationID,
		Producer:      cmp.Or(opts.Producer, StorefrontProducer),
		PartitionKey:  cmp.Or(opts.PartitionKey, p.Phone),
		Sequence:      opts.Sequence,
		OccurredAt:    at,
		Schema:        OrderPlacedSchema,
		Payload:       p,
	}
}
