package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
)

const (
	CheckoutSessionCreatedEventName    = "CheckoutSessionCreated"
	CheckoutSessionCreatedEventVersion = 1
	StorefrontProducer                 = "storefront"
)

type CheckoutSessionCreatedPayload struct {
	SessionID   string                       `json:"sessionId"`
	URL         string                       `json:"url"`
	AmountTotal int64                        `json:"amountTotal"`
	Currency    string                       `json:"currency,omitempty"`
	Items       []CheckoutSessionCreatedItem `json:"items"`
	Timestamp   time.Time                    `json:"timestamp"`
}

type CheckoutSessionCreatedItem struct {
	PriceID  string `json:"priceId"`
	Quantity int64  `json:"quantity"`
}

type CheckoutSessionCreatedEnvelope = EventEnvelope[CheckoutSessionCreatedPayload]

// BuildCheckoutSessionCreatedEvent wraps a created session. The session id is
// the partition key.
func BuildCheckoutSessionCreatedEvent(s *checkout.Session, items []checkout.LineItem, opts EnvelopeOptions) CheckoutSessionCreatedEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payload := CheckoutSessionCreatedPayload{
		SessionID:   s.ID,
		URL:         s.URL,
		AmountTotal: s.AmountTotal,
		Currency:    s.Currency,
		Items:       make([]CheckoutSessionCreatedItem, 0, len(items)),
		Timestamp:   occurredAt,
	}
	for _, it := range items {
		payload.Items = append(payload.Items, CheckoutSessionCreatedItem{
			PriceID:  it.Price,
			Quantity: it.Quantity,
		})
	}

	return CheckoutSessionCreatedEnvelope{
		EventName:     CheckoutSessionCreatedEventName,
		EventVersion:  CheckoutSessionCreatedEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      StorefrontProducer,
		PartitionKey:  s.ID,
		OccurredAt:    occurredAt,
		Payload:       payload,
	}
}
