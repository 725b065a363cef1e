package pricing

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func lines(prices ...string) []LineItem {
	out := make([]LineItem, 0, len(prices))
	for _, p := range prices {
		out = append(out, LineItem{Type: ItemService, UnitPrice: d(p), Quantity: 1})
	}
	return out
}

func TestTotal(t *testing.T) {
	calc := NewCalculator(d("0.16"))

	total, err := calc.Total(lines("10", "20"))
	require.NoError(t, err)
	assert.True(t, total.Equal(d("30")), total.String())

	total, err = calc.Total([]LineItem{{Type: ItemPart, UnitPrice: d("2.50"), Quantity: 3}})
	require.NoError(t, err)
	assert.True(t, total.Equal(d("7.50")), total.String())
}

func TestApplyTaxAppendsAndRepeats(t *testing.T) {
	calc := NewCalculator(d("0.16"))
	items := lines("10", "20")

	once, err := calc.ApplyTax(items, nil)
	require.NoError(t, err)
	require.Len(t, once, 3)
	assert.Equal(t, ItemTax, once[2].Type)
	assert.True(t, once[2].UnitPrice.Equal(d("4.80")), once[2].UnitPrice.String())
	assert.Equal(t, "VAT (16%)", once[2].Description)

	total, err := calc.Total(once)
	require.NoError(t, err)
	assert.True(t, total.Equal(d("34.80")), total.String())

	// a second application adds another 4.80 line instead of merging
	twice, err := calc.ApplyTax(once, nil)
	require.NoError(t, err)
	require.Len(t, twice, 4)
	assert.True(t, twice[3].UnitPrice.Equal(d("4.80")), twice[3].UnitPrice.String())

	total, err = calc.Total(twice)
	require.NoError(t, err)
	assert.True(t, total.Equal(d("39.60")), total.String())

	// the input slice is left untouched
	assert.Len(t, items, 2)
}

func TestApplyTaxRoundsToCents(t *testing.T) {
	items := lines("10.333", "0.004")
	out := ApplyTax(items, d("0.16"))

	// subtotal rounds to 10.34, tax 1.6544 → 1.65
	assert.True(t, out[len(out)-1].UnitPrice.Equal(d("1.65")), out[len(out)-1].UnitPrice.String())
}

func TestApplyTaxCustomRate(t *testing.T) {
	calc := NewCalculator(d("0.16"))
	rate := d("0.08")

	out, err := calc.ApplyTax(lines("100"), &rate)
	require.NoError(t, err)
	assert.True(t, out[1].UnitPrice.Equal(d("8")))

	neg := d("-0.1")
	_, err = calc.ApplyTax(lines("100"), &neg)
	assert.True(t, httperr.IsValidation(err, "negative_tax_rate"))
}

func TestNegativePriceRejected(t *testing.T) {
	calc := NewCalculator(d("0.16"))

	_, err := calc.Total(lines("10", "-1"))
	assert.True(t, httperr.IsValidation(err, "negative_price"))

	_, err = calc.ApplyTax(lines("-5"), nil)
	assert.True(t, httperr.IsValidation(err, "negative_price"))
}

func TestParseLineItems(t *testing.T) {
	var raw []RawLineItem
	require.NoError(t, json.Unmarshal([]byte(`[
		{"type": "service", "description": "Labour", "price": 10},
		{"type": "Part", "description": "Fan", "price": "20.50", "quantity": 2},
		{"type": "VAT", "description": "VAT (16%)", "price": "4.80"}
	]`), &raw))

	items, err := ParseLineItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, ItemService, items[0].Type)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, ItemPart, items[1].Type)
	assert.True(t, items[1].Amount().Equal(d("41")))
	assert.Equal(t, ItemTax, items[2].Type)
	assert.True(t, Total(items).Equal(d("55.80")))
}

func TestParseLineItemsRejectsNonNumeric(t *testing.T) {
	for _, price := range []string{`"abc"`, `""`, `null`, `true`, `"12,50"`} {
		_, err := ParseLineItems([]RawLineItem{{Type: "service", Price: json.RawMessage(price)}})
		assert.True(t, httperr.IsValidation(err, "invalid_price"), price)
	}

	_, err := ParseLineItems([]RawLineItem{{Type: "discount", Price: json.RawMessage(`1`)}})
	assert.True(t, httperr.IsValidation(err, "invalid_item_type"))

	_, err = ParseLineItems([]RawLineItem{{Type: "part", Price: json.RawMessage(`-3`)}})
	assert.True(t, httperr.IsValidation(err, "negative_price"))
}

func TestAmountsBoundedToStoredColumn(t *testing.T) {
	calc := NewCalculator(d("0.16"))

	total, err := calc.Total(lines("9999999999.99"))
	require.NoError(t, err)
	assert.True(t, total.Equal(MaxAmount))

	cases := []struct {
		name  string
		items []LineItem
		code  string
	}{
		{"price above column", lines("100000000000"), "price_too_large"},
		{"huge exponent", lines("1e2000000"), "price_too_large"},
		{"tiny exponent", lines("1e-2000000"), "invalid_price"},
		{"too many decimals", lines("10.12345"), "invalid_price"},
		{"huge quantity", []LineItem{{Type: ItemPart, UnitPrice: d("1"), Quantity: MaxQuantity + 1}}, "quantity_too_large"},
		{"line amount", []LineItem{{Type: ItemPart, UnitPrice: d("9999999999"), Quantity: 2}}, "amount_too_large"},
		{"sum of lines", lines("9999999999", "9999999999"), "total_too_large"},
		{"rounds over the cap", lines("9999999999.99", "0.005"), "total_too_large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.Total(tc.items)
			assert.True(t, httperr.IsValidation(err, tc.code), "%v", err)
		})
	}
}

func TestApplyTaxRateBounds(t *testing.T) {
	calc := NewCalculator(d("0.16"))

	for raw, code := range map[string]string{
		"1.5":        "invalid_tax_rate",
		"1e2000000":  "tax_rate_too_large",
		"1e-2000000": "invalid_tax_rate",
		"0.123456":   "invalid_tax_rate",
	} {
		rate := d(raw)
		_, err := calc.ApplyTax(lines("100"), &rate)
		assert.True(t, httperr.IsValidation(err, code), raw)
	}

	// the tax line on a maxed-out subtotal pushes the total over the cap
	out, err := calc.ApplyTax(lines("9999999999"), nil)
	require.NoError(t, err)
	_, err = calc.Total(out)
	assert.True(t, httperr.IsValidation(err, "total_too_large"))
}

func TestParseLineItemsRejectsOversizedLiterals(t *testing.T) {
	for price, code := range map[string]string{
		`1e2000000`:                         "price_too_large",
		`"1e2000000"`:                       "price_too_large",
		`100000000000`:                      "price_too_large",
		`0.000000000001`:                    "invalid_price",
		`"` + strings.Repeat("9", 40) + `"`: "invalid_price",
	} {
		_, err := ParseLineItems([]RawLineItem{{Type: "service", Price: json.RawMessage(price)}})
		assert.True(t, httperr.IsValidation(err, code), price)
	}

	_, err := ParseLineItems([]RawLineItem{{Type: "part", Price: json.RawMessage(`1`), Quantity: 1_000_000}})
	assert.True(t, httperr.IsValidation(err, "quantity_too_large"))
}
