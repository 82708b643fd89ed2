package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
)

func TestBuildCheckoutSessionCreatedEvent(t *testing.T) {
	now := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	sess := &checkout.Session{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1", AmountTotal: 100400, Currency: "usd"}
	items := []checkout.LineItem{{Price: "price_a", Quantity: 1}, {Price: "price_b", Quantity: 1}}

	env := BuildCheckoutSessionCreatedEvent(sess, items, EnvelopeOptions{
		CorrelationID: "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		EventID:       "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		OccurredAt:    now,
	})

	if err := env.Validate(CheckoutSessionCreatedEventName, CheckoutSessionCreatedEventVersion); err != nil {
		t.Fatalf("expected valid envelope, got %v", err)
	}
	if env.EventID != "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7" {
		t.Fatalf("expected provided event id to be used, got %s", env.EventID)
	}
	if env.PartitionKey != sess.ID {
		t.Fatalf("expected partition key %s, got %s", sess.ID, env.PartitionKey)
	}
	if env.Producer != StorefrontProducer {
		t.Fatalf("unexpected producer %s", env.Producer)
	}
	if env.CorrelationID != "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7" {
		t.Fatalf("unexpected correlation id %s", env.CorrelationID)
	}
	if env.Payload.Timestamp != now {
		t.Fatalf("expected payload timestamp to mirror occurredAt, got %s", env.Payload.Timestamp)
	}
	if env.Payload.AmountTotal != 100400 || env.Payload.URL != sess.URL {
		t.Fatalf("payload not copied from session: %+v", env.Payload)
	}
	if len(env.Payload.Items) != 2 || env.Payload.Items[1].PriceID != "price_b" || env.Payload.Items[1].Quantity != 1 {
		t.Fatalf("payload items not copied correctly: %+v", env.Payload.Items)
	}
}

func TestBuildCheckoutSessionCreatedEventDefaults(t *testing.T) {
	env := BuildCheckoutSessionCreatedEvent(&checkout.Session{ID: "cs_1"}, nil, EnvelopeOptions{})

	if _, err := uuid.Parse(env.EventID); err != nil {
		t.Fatalf("expected generated uuid event id, got %q", env.EventID)
	}
	if env.OccurredAt.IsZero() {
		t.Fatalf("expected occurredAt to default to now")
	}
	if env.Payload.Items == nil {
		t.Fatalf("expected empty items slice, not nil")
	}
}

func TestCheckoutSessionCreatedEnvelopeJSON(t *testing.T) {
	env := BuildCheckoutSessionCreatedEvent(&checkout.Session{ID: "cs_1", URL: "u"}, []checkout.LineItem{{Price: "p", Quantity: 1}}, EnvelopeOptions{})

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"eventName", "eventVersion", "eventId", "producer", "partitionKey", "occurredAt", "payload"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing envelope field %s in %s", key, raw)
		}
	}
	for _, key := range []string{"correlationId", "schema"} {
		if _, ok := decoded[key]; ok {
			t.Fatalf("empty %s should be omitted in %s", key, raw)
		}
	}
}

func TestValidateRejectsWrongIdentity(t *testing.T) {
	env := BuildCheckoutSessionCreatedEvent(&checkout.Session{ID: "cs_1"}, nil, EnvelopeOptions{})

	if err := env.Validate("OrderCreated", CheckoutSessionCreatedEventVersion); err == nil {
		t.Fatalf("expected name mismatch to fail")
	}
	if err := env.Validate(CheckoutSessionCreatedEventName, 2); err == nil {
		t.Fatalf("expected version mismatch to fail")
	}
	env.PartitionKey = ""
	if err := env.Validate(CheckoutSessionCreatedEventName, CheckoutSessionCreatedEventVersion); err == nil {
		t.Fatalf("expected missing partition key to fail")
	}
}
