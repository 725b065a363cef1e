package pricing

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
)

type ItemType string

// Limites de um valor monetário: o custo vai para numeric(12,2).
var MaxAmount = decimal.RequireFromString("9999999999.99")

const (
	MaxQuantity = 10000
	// MaxScale is how many decimal places a unit price or tax rate may carry.
	MaxScale = 4

	maxPriceLen = 32
	// expoentes fora dessa faixa nem chegam a virar aritmética
	minExponent = -12
	maxExponent = 10
)

const (
	ItemService ItemType = "service"
	ItemPart    ItemType = "part"
	ItemTax     ItemType = "tax"
)

func ParseItemType(raw string) (ItemType, error) {
	switch t := strings.ToLower(strings.TrimSpace(raw)); t {
	case "service":
		return ItemService, nil
	case "part":
		return ItemPart, nil
	case "tax", "vat":
		return ItemTax, nil
	}
	return "", httperr.ErrValidation("invalid_item_type", "type", "unknown line item type "+raw)
}

// LineItem is one invoice line. It lives only for the duration of an
// invoice request and is never persisted.
type LineItem struct {
	Type        ItemType        `json:"type"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// RawLineItem is a line as submitted by the pricing form: the price may be a
// JSON number or a numeric string.
type RawLineItem struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
	Quantity    int             `json:"quantity"`
}

// ParseLineItems converts raw lines, rejecting non-numeric and negative values.
func ParseLineItems(raw []RawLineItem) ([]LineItem, error) {
	items := make([]LineItem, 0, len(raw))
	for i, r := range raw {
		field := "items[" + strconv.Itoa(i) + "]"

		kind, err := ParseItemType(r.Type)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_item_type", field+".type", err.Error())
		}

		price, err := parsePrice(r.Price)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_price", field+".price", "price must be numeric")
		}

		items = append(items, LineItem{
			Type:        kind,
			Description: strings.TrimSpace(r.Description),
			UnitPrice:   price,
			Quantity:    r.Quantity,
		})
	}

	if err := Validate(items); err != nil {
		return nil, err
	}
	return Normalize(items), nil
}

func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if len(s) > maxPriceLen {
		return decimal.Zero, errors.New("price literal too long")
	}
	return decimal.NewFromString(s)
}

// checkScale bounds the exponent before anything rescales the value, so a
// literal like 1e2000000 never expands into millions of digits.
func checkScale(v decimal.Decimal, code, field, what string) error {
	if v.IsZero() {
		return nil
	}
	exp := v.Exponent()
	if exp > maxExponent {
		return httperr.ErrValidation(code+"_too_large", field, what+" exceeds "+MaxAmount.StringFixed(2))
	}
	if exp < minExponent || !v.Round(MaxScale).Equal(v) {
		return httperr.ErrValidation("invalid_"+code, field, what+" has more than "+strconv.Itoa(MaxScale)+" decimal places")
	}
	return nil
}

// Validate bounds every line to what the cost column can hold.
func Validate(items []LineItem) error {
	for i, it := range items {
		field := "items[" + strconv.Itoa(i) + "]"
		if it.UnitPrice.IsNegative() {
			return httperr.ErrValidation("negative_price", field+".price", "price cannot be negative")
		}
		if err := checkScale(it.UnitPrice, "price", field+".price", "price"); err != nil {
			return err
		}
		if it.UnitPrice.GreaterThan(MaxAmount) {
			return httperr.ErrValidation("price_too_large", field+".price", "price exceeds "+MaxAmount.StringFixed(2))
		}
		if it.Quantity < 0 {
			return httperr.ErrValidation("negative_quantity", field+".quantity", "quantity cannot be negative")
		}
		if it.Quantity > MaxQuantity {
			return httperr.ErrValidation("quantity_too_large", field+".quantity", "quantity exceeds "+strconv.Itoa(MaxQuantity))
		}
		if it.Amount().Round(2).GreaterThan(MaxAmount) {
			return httperr.ErrValidation("amount_too_large", field, "line amount exceeds "+MaxAmount.StringFixed(2))
		}
		switch it.Type {
		case ItemService, ItemPart, ItemTax:
		default:
			return httperr.ErrValidation("invalid_item_type", field+".type", "unknown line item type "+string(it.Type))
		}
	}
	return nil
}

// Normalize: quantidade vazia conta como 1.
func Normalize(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		out[i] = it
	}
	return out
}
