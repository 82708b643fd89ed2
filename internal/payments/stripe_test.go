package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Form   map[string][]string
}

type stubAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (s *stubAPI) record(r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Form:   r.PostForm,
	})
}

func newStubStripe(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Stripe, *stubAPI) {
	t.Helper()
	stub := &stubAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.record(r)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewStripe(StripeConfig{
		SecretKey:  "sk_test_123",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	}), stub
}

const pricePage = `{
  "object": "list",
  "url": "/v1/prices",
  "has_more": true,
  "data": [
    {
      "id": "price_1",
      "object": "price",
      "active": true,
      "currency": "usd",
      "unit_amount": 99900,
      "created": 1700000000,
      "product": {
        "id": "prod_1",
        "object": "product",
        "name": "iPhone 15",
        "description": "Phone",
        "images": ["https://img/1.png"],
        "metadata": {"device": "iphone"}
      }
    },
    {
      "id": "price_2",
      "object": "price",
      "active": false,
      "currency": "usd",
      "unit_amount": 500,
      "created": 1690000000,
      "product": "prod_2"
    }
  ]
}`

func TestStripe_ListPrices(t *testing.T) {
	sc, stub := newStubStripe(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pricePage))
	})

	page, err := sc.ListPrices(context.Background(), catalog.PageRequest{Limit: 100, StartingAfter: "price_0"})
	require.NoError(t, err)

	assert.True(t, page.HasMore)
	require.Len(t, page.Prices, 2)

	first := page.Prices[0]
	assert.Equal(t, "price_1", first.ID)
	assert.Equal(t, int64(99900), first.UnitAmount)
	assert.True(t, first.Active)
	assert.Equal(t, int64(1700000000), first.Created.Unix())
	require.NotNil(t, first.Product)
	assert.Equal(t, "iphone", first.Device())
	assert.Equal(t, "prod_1", first.ProductID)

	second := page.Prices[1]
	assert.False(t, second.Active)
	assert.Nil(t, second.Product)
	assert.Equal(t, "prod_2", second.ProductID)

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v1/prices", req.Path)
	assert.Equal(t, "100", first1(req.Query["limit"]))
	assert.Equal(t, "price_0", first1(req.Query["starting_after"]))
	assert.Equal(t, []string{"data.product"}, expands(req.Query))
}

func TestStripe_ListPricesError(t *testing.T) {
	sc, _ := newStubStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided: sk_test_***123"}}`))
	})

	_, err := sc.ListPrices(context.Background(), catalog.PageRequest{Limit: 100})
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Equal(t, "Invalid API Key provided: sk_test_***123", err.Error())
}

func TestStripe_GetPrice(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		sc, stub := newStubStripe(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"price_1","object":"price","active":true,"currency":"usd","unit_amount":999,"created":1700000000,
				"product":{"id":"prod_1","object":"product","name":"Watch","images":[],"metadata":{"device":"watch"}}}`))
		})

		p, err := sc.GetPrice(context.Background(), "price_1")
		require.NoError(t, err)
		assert.Equal(t, "Watch", catalog.Name(p))
		assert.Equal(t, "/v1/prices/price_1", stub.requests[0].Path)
		assert.Equal(t, []string{"product"}, expands(stub.requests[0].Query))
	})

	t.Run("missing", func(t *testing.T) {
		sc, _ := newStubStripe(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such price: 'nope'"}}`))
		})

		_, err := sc.GetPrice(context.Background(), "nope")
		assert.ErrorIs(t, err, catalog.ErrPriceNotFound)
	})
}

func TestStripe_CreateCheckoutSession(t *testing.T) {
	sc, stub := newStubStripe(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1",
			"status":"open","payment_status":"unpaid","amount_total":100400,"currency":"usd","expires_at":1700086400}`))
	})

	sess, err := sc.CreateCheckoutSession(context.Background(), checkout.SessionRequest{
		LineItems:  []checkout.LineItem{{Price: "price_a", Quantity: 1}, {Price: "price_b", Quantity: 2}},
		SuccessURL: "http://localhost:8080/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://localhost:8080/cancel?session_id={CHECKOUT_SESSION_ID}",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)
	assert.Equal(t, "open", sess.Status)
	assert.Equal(t, int64(100400), sess.AmountTotal)
	assert.False(t, sess.ExpiresAt.IsZero())

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/checkout/sessions", req.Path)
	assert.Equal(t, "payment", first1(req.Form["mode"]))
	assert.Equal(t, "price_a", first1(req.Form["line_items[0][price]"]))
	assert.Equal(t, "1", first1(req.Form["line_items[0][quantity]"]))
	assert.Equal(t, "price_b", first1(req.Form["line_items[1][price]"]))
	assert.Equal(t, "2", first1(req.Form["line_items[1][quantity]"]))
	assert.True(t, strings.HasSuffix(first1(req.Form["success_url"]), "{CHECKOUT_SESSION_ID}"))
}

func TestStripe_CreateCheckoutSessionError(t *testing.T) {
	sc, _ := newStubStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such price: 'price_x'"}}`))
	})

	_, err := sc.CreateCheckoutSession(context.Background(), checkout.SessionRequest{
		LineItems: []checkout.LineItem{{Price: "price_x", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "No such price: 'price_x'", err.Error())
}

func TestStripe_GetCheckoutSession(t *testing.T) {
	t.Run("paid", func(t *testing.T) {
		sc, stub := newStubStripe(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"cs_paid","object":"checkout.session","url":null,
				"status":"complete","payment_status":"paid","amount_total":999,"currency":"usd"}`))
		})

		sess, err := sc.GetCheckoutSession(context.Background(), "cs_paid")
		require.NoError(t, err)
		assert.Equal(t, "complete", sess.Status)
		assert.True(t, sess.Paid())
		require.Len(t, stub.requests, 1)
		assert.Equal(t, http.MethodGet, stub.requests[0].Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_paid", stub.requests[0].Path)
	})

	t.Run("unknown", func(t *testing.T) {
		sc, _ := newStubStripe(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such checkout.session: 'cs_x'"}}`))
		})

		_, err := sc.GetCheckoutSession(context.Background(), "cs_x")
		assert.ErrorIs(t, err, checkout.ErrSessionNotFound)
	})
}

func first1(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// expands collects expand values regardless of the array key style.
func expands(q map[string][]string) []string {
	var out []string
	for k, v := range q {
		if strings.HasPrefix(k, "expand[") {
			out = append(out, v...)
		}
	}
	return out
}
