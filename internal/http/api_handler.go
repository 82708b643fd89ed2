package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
)

type cartResponse struct {
	Items        []catalog.Price    `json:"items"`
	Total        int64              `json:"total"`
	TotalDisplay string             `json:"totalDisplay"`
	Notification *cart.Notification `json:"notification,omitempty"`
}

func newCartResponse(snap cart.Snapshot) cartResponse {
	return cartResponse{
		Items:        snap.Items,
		Total:        snap.Total,
		TotalDisplay: catalog.FormatAmount(snap.Total),
		Notification: snap.Notification,
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartResponse(h.cartFor(r).Snapshot()))
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PriceID string `json:"priceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	id := strings.TrimSpace(body.PriceID)
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "missing priceId")
		return
	}

	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrPriceNotFound) {
			writeError(w, r, http.StatusNotFound, "price not found")
			return
		}
		h.log(r).WithError(err).Error("get price")
		writeError(w, r, http.StatusBadGateway, "failed to load price")
		return
	}

	store := h.cartFor(r)
	outcome := store.Add(*p)
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome,
		"cart":    newCartResponse(store.Snapshot()),
	})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	store := h.cartFor(r)
	store.Remove(chi.URLParam(r, "priceId"))
	writeJSON(w, http.StatusOK, newCartResponse(store.Snapshot()))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := h.cartFor(r)
	store.RemoveAll()
	writeJSON(w, http.StatusOK, newCartResponse(store.Snapshot()))
}

func (h *Handler) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.CheckoutCart(r.Context(), h.cartFor(r), h.origin(r))
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, r, http.StatusBadRequest, "cart is empty")
			return
		}
		h.log(r).WithError(err).Error("checkout cart")
		writeMessage(w, http.StatusBadGateway, causeMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"url":       sess.URL,
		"sessionId": sess.ID,
	})
}

type createSessionRequest struct {
	LineItems []checkout.LineItem `json:"lineItems"`
}

// CreateCheckoutSession passes caller supplied line items to the provider.
// It answers any method so non-POST requests get the JSON 405 body.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeMessage(w, http.StatusMethodNotAllowed, "POST method required")
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	sess, err := h.checkout.CreateSession(r.Context(), req.LineItems, h.origin(r))
	if err != nil {
		h.log(r).WithError(err).Error("create checkout session")
		writeMessage(w, http.StatusInternalServerError, causeMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"session": sess})
}

// causeMessage strips our wrapping so the visitor sees the provider's text.
func causeMessage(err error) string {
	return errors.Cause(err).Error()
}
