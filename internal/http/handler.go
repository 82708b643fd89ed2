package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// CatalogSource loads the product catalog. *catalog.Loader implements it.
type CatalogSource interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
	Get(ctx context.Context, id string) (*catalog.Price, error)
}

// CheckoutService creates checkout sessions. *checkout.Service implements it.
type CheckoutService interface {
	CreateSession(ctx context.Context, items []checkout.LineItem, baseURL string) (*checkout.Session, error)
	CheckoutCart(ctx context.Context, store *cart.Store, baseURL string) (*checkout.Session, error)
	Complete(ctx context.Context, sessionID string, status checkout.Status)
}

type Handler struct {
	logger   logrus.FieldLogger
	catalog  CatalogSource
	carts    *cart.Sessions
	checkout CheckoutService

	baseURL       string
	redirectDelay time.Duration
	pages         *pages
}

type HandlerConfig struct {
	// BaseURL overrides the origin used in checkout return URLs.
	BaseURL       string
	RedirectDelay time.Duration
}

func NewHandler(logger logrus.FieldLogger, src CatalogSource, carts *cart.Sessions, co CheckoutService, cfg HandlerConfig) *Handler {
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = 2 * time.Second
	}
	return &Handler{
		logger:        logger,
		catalog:       src,
		carts:         carts,
		checkout:      co,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		redirectDelay: cfg.RedirectDelay,
		pages:         mustParsePages(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}

// cartFor returns the visitor's cart.
func (h *Handler) cartFor(r *http.Request) *cart.Store {
	return h.carts.Get(middleware.GetSessionID(r.Context()))
}

// origin is the absolute base for provider return URLs.
func (h *Handler) origin(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *Handler) log(r *http.Request) logrus.FieldLogger {
	return h.logger.WithField("correlationId", middleware.GetCorrelationID(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, middleware.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// writeMessage is the error shape of the checkout endpoints.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
