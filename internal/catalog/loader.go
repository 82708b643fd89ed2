package catalog

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// PageSize is the number of prices requested per provider call.
const PageSize = 100

type PageRequest struct {
	Limit         int64
	StartingAfter string
}

type Page struct {
	Prices  []Price
	HasMore bool
}

// Provider is the payment provider's price listing.
type Provider interface {
	ListPrices(ctx context.Context, req PageRequest) (Page, error)
	GetPrice(ctx context.Context, id string) (*Price, error)
}

type Loader struct {
	provider Provider
}

func NewLoader(provider Provider) *Loader {
	return &Loader{provider: provider}
}

// Load pages through every price and keeps the active ones. Any provider
// error aborts the load; no partial catalog is returned.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	ctx, span := otel.Tracer("storefront/catalog").Start(ctx, "catalog.Load")
	defer span.End()

	var (
		all    []Price
		cursor string
		pages  int
	)
	for {
		page, err := l.provider.ListPrices(ctx, PageRequest{Limit: PageSize, StartingAfter: cursor})
		if err != nil {
			span.RecordError(err)
			return nil, errors.Wrapf(err, "list prices (page %d)", pages+1)
		}
		pages++

		for _, p := range page.Prices {
			if p.Active {
				all = append(all, p)
			}
		}

		if !page.HasMore {
			break
		}
		if len(page.Prices) == 0 {
			return nil, errors.Errorf("list prices (page %d): provider reported more results but returned none", pages)
		}
		// Cursor comes from the raw page so pages made only of inactive
		// prices still advance.
		cursor = page.Prices[len(page.Prices)-1].ID
	}

	span.SetAttributes(attribute.Int("catalog.pages", pages), attribute.Int("catalog.prices", len(all)))
	return New(all), nil
}

// Get fetches a single active price.
func (l *Loader) Get(ctx context.Context, id string) (*Price, error) {
	if id == "" {
		return nil, ErrPriceNotFound
	}
	p, err := l.provider.GetPrice(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get price %s", id)
	}
	if p == nil || !p.Active {
		return nil, ErrPriceNotFound
	}
	return p, nil
}
