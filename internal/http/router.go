package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

type RouterConfig struct {
	CORSAllowOrigins []string
	SessionTTL       time.Duration
	// SoundsDir is served under /sounds/ when set.
	SoundsDir        string
}

func NewRouter(h *Handler, logger logrus.FieldLogger, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middlewares (outer -> inner)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))
	r.Use(tracing)
	r.Use(middleware.Session(cfg.SessionTTL))

	r.Get("/health", h.Health)

	if cfg.SoundsDir != "" {
		r.Handle("/sounds/*", http.StripPrefix("/sounds/", http.FileServer(http.Dir(cfg.SoundsDir))))
	}

	// Pages
	r.Get("/", h.Index)
	r.Get("/products/{priceId}", h.Product)
	r.Get("/cart", h.Cart)
	r.Post("/cart/items", h.AddToCartForm)
	r.Post("/cart/items/{priceId}/remove", h.RemoveFromCartForm)
	r.Post("/cart/clear", h.ClearCartForm)
	r.Post("/checkout", h.CheckoutForm)
	r.Get("/success", h.Success)
	r.Get("/cancel", h.Cancel)

	r.Route("/api", func(r chi.Router) {
		r.HandleFunc("/checkout", h.CreateCheckoutSession)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Delete("/items/{priceId}", h.RemoveCartItem)
			r.Post("/checkout", h.CheckoutCart)
		})
	})

	return r
}

// tracing opens a server span per request and names it after the matched
// route once routing is done.
func tracing(next http.Handler) http.Handler {
	tracer := otel.Tracer("storefront/http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctx))

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(attribute.String("http.route", pattern))
			}
		}
		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("correlation.id", middleware.GetCorrelationID(r.Context())),
		)
	})
}
