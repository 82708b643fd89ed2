package catalog

import "github.com/shopspring/decimal"

// Display helpers. They read through the expanded product and never fail:
// missing fields come back as zero values.

func Name(p *Price) string {
	if p == nil || p.Product == nil {
		return ""
	}
	return p.Product.Name
}

func Image(p *Price) string {
	if p == nil || p.Product == nil || len(p.Product.Images) == 0 {
		return ""
	}
	return p.Product.Images[0]
}

func Description(p *Price) string {
	if p == nil || p.Product == nil {
		return ""
	}
	return p.Product.Description
}

// Amount converts minor currency units to major units. Assumes a two-decimal
// currency.
func Amount(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// PriceOf returns the unit amount of p in major units.
func PriceOf(p *Price) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return Amount(p.UnitAmount)
}

// FormatAmount renders minor units with two decimals, e.g. 999 -> "9.99".
func FormatAmount(minor int64) string {
	return Amount(minor).StringFixed(2)
}
