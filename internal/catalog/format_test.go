package catalog

import "testing"

func TestPriceOf(t *testing.T) {
	tests := map[string]struct {
		amount int64
		want   string
	}{
		"two decimals": {amount: 999, want: "9.99"},
		"zero":         {amount: 0, want: "0"},
		"whole":        {amount: 129900, want: "1299"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := PriceOf(&Price{UnitAmount: tc.amount})
			if got.String() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.String())
			}
		})
	}

	if !PriceOf(nil).IsZero() {
		t.Fatalf("expected zero price for nil")
	}
	if got := PriceOf(&Price{UnitAmount: 999}).InexactFloat64(); got != 9.99 {
		t.Fatalf("expected 9.99, got %v", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(999); got != "9.99" {
		t.Fatalf("expected 9.99, got %q", got)
	}
	if got := FormatAmount(0); got != "0.00" {
		t.Fatalf("expected 0.00, got %q", got)
	}
}

func TestDisplayFieldsAreNilSafe(t *testing.T) {
	for _, p := range []*Price{nil, {ID: "price_1"}, {ID: "price_2", Product: &Product{}}} {
		if Name(p) != "" || Image(p) != "" || Description(p) != "" {
			t.Fatalf("expected empty display fields for %+v", p)
		}
	}

	p := &Price{Product: &Product{
		Name:        "iPhone 15",
		Description: "A phone",
		Images:      []string{"https://img/1.png", "https://img/2.png"},
	}}
	if Name(p) != "iPhone 15" || Description(p) != "A phone" || Image(p) != "https://img/1.png" {
		t.Fatalf("unexpected display fields: %q %q %q", Name(p), Description(p), Image(p))
	}
}

func TestParseCategoryAndSort(t *testing.T) {
	if ParseCategory("watch") != CategoryWatch || ParseCategory("ipad") != CategoryAll || ParseCategory("") != CategoryAll {
		t.Fatalf("unexpected category parsing")
	}
	if ParseSortOrder("highToLow") != SortHighToLow || ParseSortOrder("bogus") != SortNewest {
		t.Fatalf("unexpected sort parsing")
	}
}
