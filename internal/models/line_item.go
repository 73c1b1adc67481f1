package models

import "errors"

// ErrLineItemUnresolvable indicates a line item carries no product
// reference under any known field name. Reconciliation treats this as a
// malformed order and aborts before touching stock.
var ErrLineItemUnresolvable = errors.New("line item has no product reference")

// RawLineItem is a single line-item document as stored in Order.Items.
// Storefront versions have written several shapes over time, so the
// document is kept schemaless and resolved field by field.
type RawLineItem map[string]interface{}

// LineItem is the canonical form a raw line item resolves to.
type LineItem struct {
	ProductID   string
	Quantity    int
	ProductName string
}

// ResolveLineItem normalizes a raw line-item document.
//
// The product reference is taken from the first present of: the embedded
// product document's "id", then "productId", then "id". The quantity
// comes from "quantity" or "qty" and defaults to 1 when absent or not a
// positive number. A display name is carried along when one exists so
// shortfall reports stay readable even if the product row is gone.
func ResolveLineItem(raw RawLineItem) (LineItem, error) {
	item := LineItem{Quantity: 1}

	if product, ok := raw["product"].(map[string]interface{}); ok {
		item.ProductID = stringField(product, "id")
		item.ProductName = stringField(product, "name")
	}
	if item.ProductID == "" {
		item.ProductID = stringField(raw, "productId")
	}
	if item.ProductID == "" {
		item.ProductID = stringField(raw, "id")
	}
	if item.ProductID == "" {
		return LineItem{}, ErrLineItemUnresolvable
	}

	if qty, ok := intField(raw, "quantity"); ok {
		item.Quantity = qty
	} else if qty, ok := intField(raw, "qty"); ok {
		item.Quantity = qty
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if item.ProductName == "" {
		item.ProductName = stringField(raw, "productName")
	}
	if item.ProductName == "" {
		item.ProductName = stringField(raw, "name")
	}

	return item, nil
}

// ResolveLineItems normalizes a full batch. Any unresolvable item fails
// the whole batch so callers never act on a partial view of an order.
func ResolveLineItems(raws []RawLineItem) ([]LineItem, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	items := make([]LineItem, 0, len(raws))
	for _, raw := range raws {
		item, err := ResolveLineItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func stringField(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

// intField reads a numeric field. JSON numbers decode as float64, but
// clients have also sent quantities as integers through other paths.
func intField(doc map[string]interface{}, key string) (int, bool) {
	switch v := doc[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
