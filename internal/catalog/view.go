package catalog

import "sort"

// Catalog is the loaded set of active prices with its category subsets.
type Catalog struct {
	All []Price

	byCategory map[Category][]Price
}

func New(prices []Price) *Catalog {
	c := &Catalog{
		All:        prices,
		byCategory: make(map[Category][]Price, len(Categories)),
	}
	for _, p := range prices {
		switch cat := Category(p.Device()); cat {
		case CategoryIPhone, CategoryMacBook, CategoryWatch:
			c.byCategory[cat] = append(c.byCategory[cat], p)
		}
	}
	return c
}

// Items returns the unsorted subset for a category.
func (c *Catalog) Items(cat Category) []Price {
	if cat == CategoryAll {
		return c.All
	}
	return c.byCategory[cat]
}

// View filters by category and then sorts. The underlying slices are not
// modified.
func (c *Catalog) View(cat Category, order SortOrder) []Price {
	return Sort(c.Items(cat), order)
}

func (c *Catalog) Find(id string) (Price, bool) {
	for _, p := range c.All {
		if p.ID == id {
			return p, true
		}
	}
	return Price{}, false
}

// Sort returns a sorted copy. Ties keep their original relative order.
func Sort(items []Price, order SortOrder) []Price {
	out := make([]Price, len(items))
	copy(out, items)

	switch order {
	case SortLowToHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UnitAmount < out[j].UnitAmount })
	case SortHighToLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UnitAmount > out[j].UnitAmount })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	}
	return out
}
