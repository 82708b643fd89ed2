package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

//go:embed templates/*.html
var templatesFS embed.FS

type pages struct {
	tmpl *template.Template
}

func mustParsePages() *pages {
	funcs := template.FuncMap{
		"name":        func(p catalog.Price) string { return catalog.Name(&p) },
		"image":       func(p catalog.Price) string { return catalog.Image(&p) },
		"description": func(p catalog.Price) string { return catalog.Description(&p) },
		"price":       func(p catalog.Price) string { return catalog.FormatAmount(p.UnitAmount) },
		"amount":      catalog.FormatAmount,
	}
	return &pages{
		tmpl: template.Must(template.New("pages").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")),
	}
}

// pageData holds the fields every page layout reads.
type pageData struct {
	Title        string
	CartCount    int
	Notification *cart.Notification

	RedirectURL     string
	RedirectSeconds int
}

type indexPage struct {
	pageData
	Categories []catalog.Category
	SortOrders []catalog.SortOption
	Category   catalog.Category
	Sort       catalog.SortOrder
	Items      []catalog.Price
}

type productPage struct {
	pageData
	Price *catalog.Price
}

type cartPage struct {
	pageData
	Items []catalog.Price
	Total int64
	Error string
}

type messagePage struct {
	pageData
	Kind    string
	Heading string
	Detail  string
}

// render executes into a buffer so a template failure never sends a
// half-written page.
func (p *pages) render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.pages.render(w, status, name, data); err != nil {
		h.log(r).WithError(err).WithField("template", name).Error("render page")
	}
}

// layout fills the shared page fields from the visitor's cart.
func (h *Handler) layout(r *http.Request, title string) pageData {
	snap := h.cartFor(r).Snapshot()
	return pageData{
		Title:        title,
		CartCount:    len(snap.Items),
		Notification: snap.Notification,
	}
}

func (h *Handler) renderMessage(w http.ResponseWriter, r *http.Request, status int, kind, heading, detail string) {
	h.render(w, r, status, "message.html", messagePage{
		pageData: h.layout(r, heading),
		Kind:     kind,
		Heading:  heading,
		Detail:   detail,
	})
}
