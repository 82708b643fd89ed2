package httpapi

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
)

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	category := catalog.ParseCategory(r.URL.Query().Get("category"))
	order := catalog.ParseSortOrder(r.URL.Query().Get("sort"))

	cat, err := h.catalog.Load(r.Context())
	if err != nil {
		h.log(r).WithError(err).Error("load catalog")
		h.renderMessage(w, r, http.StatusBadGateway, "error", "Products are unavailable", "Please try again later.")
		return
	}

	h.render(w, r, http.StatusOK, "index.html", indexPage{
		pageData:   h.layout(r, "Store"),
		Categories: catalog.Categories,
		SortOrders: catalog.SortOrders,
		Category:   category,
		Sort:       order,
		Items:      cat.View(category, order),
	})
}

func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "priceId"))
	if err != nil {
		if errors.Is(err, catalog.ErrPriceNotFound) {
			h.renderMessage(w, r, http.StatusNotFound, "error", "Product not found", "")
			return
		}
		h.log(r).WithError(err).Error("get price")
		h.renderMessage(w, r, http.StatusBadGateway, "error", "Product is unavailable", "Please try again later.")
		return
	}

	h.render(w, r, http.StatusOK, "product.html", productPage{
		pageData: h.layout(r, catalog.Name(p)),
		Price:    p,
	})
}

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	h.renderCart(w, r, http.StatusOK, "")
}

func (h *Handler) renderCart(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	snap := h.cartFor(r).Snapshot()
	page := cartPage{
		pageData: h.layout(r, "Cart"),
		Items:    snap.Items,
		Total:    snap.Total,
		Error:    errMsg,
	}
	h.render(w, r, status, "cart.html", page)
}

// AddToCartForm handles the add-to-cart buttons and redirects back.
func (h *Handler) AddToCartForm(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.FormValue("priceId"))
	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrPriceNotFound) {
			h.renderMessage(w, r, http.StatusNotFound, "error", "Product not found", "")
			return
		}
		h.log(r).WithError(err).Error("get price")
		h.renderMessage(w, r, http.StatusBadGateway, "error", "Product is unavailable", "Please try again later.")
		return
	}

	h.cartFor(r).Add(*p)
	http.Redirect(w, r, localRedirect(r.FormValue("redirect"), "/"), http.StatusSeeOther)
}

func (h *Handler) RemoveFromCartForm(w http.ResponseWriter, r *http.Request) {
	h.cartFor(r).Remove(chi.URLParam(r, "priceId"))
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handler) ClearCartForm(w http.ResponseWriter, r *http.Request) {
	h.cartFor(r).RemoveAll()
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// CheckoutForm starts checkout for the visitor's cart and redirects to the
// provider. On failure the cart is shown again with the error.
func (h *Handler) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.CheckoutCart(r.Context(), h.cartFor(r), h.origin(r))
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			h.renderCart(w, r, http.StatusBadRequest, "Your cart is empty")
			return
		}
		h.log(r).WithError(err).Error("checkout cart")
		h.renderCart(w, r, http.StatusBadGateway, "Checkout failed: "+causeMessage(err))
		return
	}
	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
}

// Success is the provider's return page after payment.
func (h *Handler) Success(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSessionID(w, r)
	if !ok {
		return
	}

	h.cartFor(r).RemoveAll()
	h.checkout.Complete(r.Context(), id, checkout.StatusCompleted)
	h.renderTerminal(w, r, http.StatusOK, "success", "Payment successful", "Thank you for your order.")
}

// Cancel is the provider's return page when the visitor backs out.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requireSessionID(w, r)
	if !ok {
		return
	}

	h.checkout.Complete(r.Context(), id, checkout.StatusCanceled)
	h.renderTerminal(w, r, http.StatusOK, "cancel", "Payment canceled", "Your cart has been kept.")
}

func (h *Handler) requireSessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if id == "" {
		h.renderTerminal(w, r, http.StatusForbidden, "denied", "Access denied", "You are not authorized to access this page.")
		return "", false
	}
	return id, true
}

// renderTerminal shows a message that sends the visitor home after the
// redirect delay.
func (h *Handler) renderTerminal(w http.ResponseWriter, r *http.Request, status int, kind, heading, detail string) {
	data := h.layout(r, heading)
	data.Notification = nil
	data.RedirectURL = "/"
	data.RedirectSeconds = int(math.Ceil(h.redirectDelay.Seconds()))

	h.render(w, r, status, "message.html", messagePage{
		pageData: data,
		Kind:     kind,
		Heading:  heading,
		Detail:   detail,
	})
}

// localRedirect only allows same-site paths. Browsers treat a backslash
// like a slash, so "/\\host" is rejected along with "//host".
func localRedirect(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return target
}
