package payments

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
)

// Stripe talks to the Stripe API. It serves both the catalog listing and
// hosted checkout session creation.
type Stripe struct {
	api *client.API
}

type StripeConfig struct {
	SecretKey string
	// BaseURL overrides the API host, e.g. for stripe-mock or tests.
	BaseURL    string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

func NewStripe(cfg StripeConfig) *Stripe {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	bc := &stripe.BackendConfig{
		HTTPClient: httpClient,
		// no retries: a failed load or checkout is surfaced to the visitor
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.BaseURL != "" {
		bc.URL = stripe.String(cfg.BaseURL)
	}
	if cfg.Logger != nil {
		bc.LeveledLogger = cfg.Logger
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, bc)

	return &Stripe{
		api: client.New(cfg.SecretKey, &stripe.Backends{
			API:     backend,
			Connect: backend,
			Uploads: backend,
		}),
	}
}

// ListPrices fetches exactly one page with products expanded.
func (s *Stripe) ListPrices(ctx context.Context, req catalog.PageRequest) (catalog.Page, error) {
	params := &stripe.PriceListParams{}
	params.Context = ctx
	params.Single = true
	if req.Limit > 0 {
		params.Limit = stripe.Int64(req.Limit)
	}
	if req.StartingAfter != "" {
		params.StartingAfter = stripe.String(req.StartingAfter)
	}
	params.AddExpand("data.product")

	it := s.api.Prices.List(params)
	var page catalog.Page
	for it.Next() {
		page.Prices = append(page.Prices, toPrice(it.Price()))
	}
	if err := it.Err(); err != nil {
		return catalog.Page{}, providerError(err)
	}
	if meta := it.Meta(); meta != nil {
		page.HasMore = meta.HasMore
	}
	return page, nil
}

func (s *Stripe) GetPrice(ctx context.Context, id string) (*catalog.Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx
	params.AddExpand("product")

	sp, err := s.api.Prices.Get(id, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound {
			return nil, catalog.ErrPriceNotFound
		}
		return nil, providerError(err)
	}
	p := toPrice(sp)
	return &p, nil
}

// CreateCheckoutSession creates a payment-mode session for the given line
// items. Items are sent in order and unchanged.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
	}
	params.Context = ctx
	for _, li := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(li.Price),
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	cs, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, providerError(err)
	}
	return toSession(cs), nil
}

// GetCheckoutSession reads back a session, e.g. to confirm payment on the
// return pages.
func (s *Stripe) GetCheckoutSession(ctx context.Context, id string) (*checkout.Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	cs, err := s.api.CheckoutSessions.Get(id, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound {
			return nil, checkout.ErrSessionNotFound
		}
		return nil, providerError(err)
	}
	return toSession(cs), nil
}

func toPrice(sp *stripe.Price) catalog.Price {
	p := catalog.Price{
		ID:         sp.ID,
		UnitAmount: sp.UnitAmount,
		Currency:   string(sp.Currency),
		Active:     sp.Active,
	}
	if sp.Created > 0 {
		p.Created = time.Unix(sp.Created, 0).UTC()
	}
	if sp.Product != nil {
		p.ProductID = sp.Product.ID
		// an unexpanded product only carries its id
		if sp.Product.Name != "" || len(sp.Product.Images) > 0 || len(sp.Product.Metadata) > 0 {
			p.Product = &catalog.Product{
				ID:          sp.Product.ID,
				Name:        sp.Product.Name,
				Description: sp.Product.Description,
				Images:      sp.Product.Images,
				Metadata:    sp.Product.Metadata,
			}
		}
	}
	return p
}

func toSession(cs *stripe.CheckoutSession) *checkout.Session {
	s := &checkout.Session{
		ID:            cs.ID,
		URL:           cs.URL,
		Status:        string(cs.Status),
		PaymentStatus: string(cs.PaymentStatus),
		AmountTotal:   cs.AmountTotal,
		Currency:      string(cs.Currency),
	}
	if cs.ExpiresAt > 0 {
		s.ExpiresAt = time.Unix(cs.ExpiresAt, 0).UTC()
	}
	return s
}
