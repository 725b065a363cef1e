package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
)

type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator builds a calculator with the shop default tax rate (0.16 → 16%).
func NewCalculator(defaultRate decimal.Decimal) *Calculator {
	return &Calculator{rate: defaultRate}
}

func (c *Calculator) DefaultRate() decimal.Decimal {
	return c.rate
}

// Total sums every line, tax lines included.
func (c *Calculator) Total(items []LineItem) (decimal.Decimal, error) {
	if err := Validate(items); err != nil {
		return decimal.Zero, err
	}
	total := Total(Normalize(items))
	if total.GreaterThan(MaxAmount) {
		return decimal.Zero, httperr.ErrValidation("total_too_large", "items", "invoice total exceeds "+MaxAmount.StringFixed(2))
	}
	return total, nil
}

// ApplyTax appends one tax line computed over the non-tax lines.
//
// Calling it twice appends two tax lines. Nothing deduplicates them.
func (c *Calculator) ApplyTax(items []LineItem, rate *decimal.Decimal) ([]LineItem, error) {
	r := c.rate
	if rate != nil {
		r = *rate
	}
	if r.IsNegative() {
		return nil, httperr.ErrValidation("negative_tax_rate", "rate", "tax rate cannot be negative")
	}
	if err := checkScale(r, "tax_rate", "rate", "tax rate"); err != nil {
		return nil, err
	}
	if r.GreaterThan(decimal.NewFromInt(1)) {
		return nil, httperr.ErrValidation("invalid_tax_rate", "rate", "tax rate cannot exceed 1 (100%)")
	}
	if err := Validate(items); err != nil {
		return nil, err
	}
	return ApplyTax(Normalize(items), r), nil
}

// ===============================
// Pure helpers
// ===============================

func Total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount())
	}
	return sum.Round(2)
}

func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.Type == ItemTax {
			continue
		}
		sum = sum.Add(it.Amount())
	}
	return sum.Round(2)
}

func TaxAmount(items []LineItem, rate decimal.Decimal) decimal.Decimal {
	return Subtotal(items).Mul(rate).Round(2)
}

func ApplyTax(items []LineItem, rate decimal.Decimal) []LineItem {
	out := make([]LineItem, 0, len(items)+1)
	out = append(out, items...)
	return append(out, LineItem{
		Type:        ItemTax,
		Description: "VAT (" + rate.Mul(decimal.NewFromInt(100)).String() + "%)",
		UnitPrice:   TaxAmount(items, rate),
		Quantity:    1,
	})
}
