package catalog

import (
	"errors"
	"time"
)

// ErrPriceNotFound is returned when a price does not exist or is no longer active.
var ErrPriceNotFound = errors.New("price not found")

// MetadataDevice is the product metadata key holding the category tag.
const MetadataDevice = "device"

type Product struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Price is a purchasable line item. Product is nil when the provider did not
// expand it; ProductID is always set.
type Price struct {
	ID         string    `json:"id"`
	UnitAmount int64     `json:"unitAmount"`
	Currency   string    `json:"currency"`
	Active     bool      `json:"active"`
	Created    time.Time `json:"created"`
	ProductID  string    `json:"productId"`
	Product    *Product  `json:"product,omitempty"`
}

// Device returns the category tag of the price's product, or "".
func (p *Price) Device() string {
	if p == nil || p.Product == nil {
		return ""
	}
	return p.Product.Metadata[MetadataDevice]
}

type Category string

const (
	CategoryAll     Category = "all"
	CategoryIPhone  Category = "iphone"
	CategoryMacBook Category = "macbook"
	CategoryWatch   Category = "watch"
)

// Categories lists the filters in display order.
var Categories = []Category{CategoryAll, CategoryIPhone, CategoryMacBook, CategoryWatch}

// ParseCategory falls back to CategoryAll for unknown input.
func ParseCategory(s string) Category {
	switch c := Category(s); c {
	case CategoryIPhone, CategoryMacBook, CategoryWatch:
		return c
	default:
		return CategoryAll
	}
}

type SortOrder string

const (
	SortNewest    SortOrder = "new"
	SortLowToHigh SortOrder = "lowToHigh"
	SortHighToLow SortOrder = "highToLow"
)

type SortOption struct {
	Value SortOrder
	Label string
}

// SortOrders lists the sort options with their labels in display order.
var SortOrders = []SortOption{
	{SortNewest, "Sort By Addition Date"},
	{SortHighToLow, "Price: High to Low"},
	{SortLowToHigh, "Price: Low to High"},
}

// ParseSortOrder falls back to SortNewest for unknown input.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(s); o {
	case SortLowToHigh, SortHighToLow:
		return o
	default:
		return SortNewest
	}
}
