package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// SessionPlaceholder is substituted by the provider with the session id.
const SessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// SessionProvider creates and reads back hosted checkout sessions at the
// payment provider.
type SessionProvider interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetCheckoutSession(ctx context.Context, id string) (*Session, error)
}

// Recorder keeps track of created sessions and their outcome.
type Recorder interface {
	RecordCreated(ctx context.Context, rec Record) error
	MarkOutcome(ctx context.Context, sessionID string, status Status) error
}

type EventPublisher interface {
	PublishCheckoutSessionCreated(ctx context.Context, s *Session, items []LineItem) error
}

type Service struct {
	creator   SessionProvider
	ledger    Recorder
	publisher EventPublisher
	logger    logrus.FieldLogger
}

// NewService wires the checkout flow. ledger and publisher may be nil.
func NewService(creator SessionProvider, ledger Recorder, publisher EventPublisher, logger logrus.FieldLogger) *Service {
	if ledger == nil {
		ledger = NopRecorder{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{creator: creator, ledger: ledger, publisher: publisher, logger: logger}
}

// ReturnURLs builds the success and cancel URLs the provider redirects to.
func ReturnURLs(baseURL string) (success, cancel string) {
	base := strings.TrimRight(baseURL, "/")
	return base + "/success?session_id=" + SessionPlaceholder,
		base + "/cancel?session_id=" + SessionPlaceholder
}

// LineItemsFor maps a cart snapshot to one quantity-1 line item per price.
func LineItemsFor(snap cart.Snapshot) []LineItem {
	items := make([]LineItem, 0, len(snap.Items))
	for _, p := range snap.Items {
		items = append(items, LineItem{Price: p.ID, Quantity: 1})
	}
	return items
}

// CreateSession passes the line items to the provider unchanged. Recording
// and event publication are best effort and never fail the call.
func (s *Service) CreateSession(ctx context.Context, items []LineItem, baseURL string) (*Session, error) {
	ctx, span := otel.Tracer("storefront/checkout").Start(ctx, "checkout.CreateSession")
	defer span.End()
	span.SetAttributes(attribute.Int("checkout.line_items", len(items)))

	success, cancel := ReturnURLs(baseURL)
	sess, err := s.creator.CreateCheckoutSession(ctx, SessionRequest{
		LineItems:  items,
		SuccessURL: success,
		CancelURL:  cancel,
	})
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "create checkout session")
	}
	if sess == nil || sess.URL == "" {
		return nil, errors.New("create checkout session: provider returned no redirect url")
	}

	log := s.logger.WithFields(logrus.Fields{
		"sessionId":     sess.ID,
		"correlationId": middleware.GetCorrelationID(ctx),
	})

	if err := s.ledger.RecordCreated(ctx, Record{
		SessionID:     sess.ID,
		URL:           sess.URL,
		Status:        StatusCreated,
		AmountTotal:   sess.AmountTotal,
		Currency:      sess.Currency,
		CorrelationID: middleware.GetCorrelationID(ctx),
		LineItems:     items,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.WithError(err).Warn("record checkout session")
	}
	if err := s.publisher.PublishCheckoutSessionCreated(ctx, sess, items); err != nil {
		log.WithError(err).Warn("publish checkout session created")
	}

	log.WithField("lineItems", len(items)).Info("checkout session created")
	return sess, nil
}

// CheckoutCart creates a session for the current contents of store. The cart
// is left untouched; it is cleared once the visitor lands on the success page.
func (s *Service) CheckoutCart(ctx context.Context, store *cart.Store, baseURL string) (*Session, error) {
	items := LineItemsFor(store.Snapshot())
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return s.CreateSession(ctx, items, baseURL)
}

// Complete records the outcome the visitor returned with once the provider
// agrees: a paid session is never marked canceled and an unpaid one is never
// marked completed.
func (s *Service) Complete(ctx context.Context, sessionID string, status Status) {
	if _, ok := s.ledger.(NopRecorder); ok {
		return
	}
	log := s.logger.WithFields(logrus.Fields{"sessionId": sessionID, "status": status})

	sess, err := s.creator.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			log.WithError(err).Warn("confirm checkout outcome")
		}
		return
	}
	if sess.Paid() != (status == StatusCompleted) {
		log.WithField("paymentStatus", sess.PaymentStatus).Warn("checkout outcome does not match provider")
		return
	}

	if err := s.ledger.MarkOutcome(ctx, sessionID, status); err != nil &&
		!errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionFinished) {
		log.WithError(err).Warn("mark checkout outcome")
	}
}

type NopRecorder struct{}

func (NopRecorder) RecordCreated(context.Context, Record) error      { return nil }
func (NopRecorder) MarkOutcome(context.Context, string, Status) error { return nil }

type NopPublisher struct{}

func (NopPublisher) PublishCheckoutSessionCreated(context.Context, *Session, []LineItem) error {
	return nil
}
