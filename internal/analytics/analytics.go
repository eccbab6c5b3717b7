// Package analytics translates cart and order lifecycle transitions into
// structured event payloads and fans them out to registered sinks.
package analytics

import (
	"github.com/shopspring/decimal"
)

// Event names, following the GA4 e-commerce vocabulary.
const (
	EventViewItem       = "view_item"
	EventAddToCart      = "add_to_cart"
	EventRemoveFromCart = "remove_from_cart"
	EventBeginCheckout  = "begin_checkout"
	EventPurchase       = "purchase"
)

// Item is a single product entry in an event payload.
type Item struct {
	ItemID   string
	ItemName string
	Price    decimal.Decimal
	Quantity int
}

// Payload carries the event parameters. TransactionID, Tax and Shipping are
// set only for purchase events.
type Payload struct {
	Currency string
	Value    decimal.Decimal
	Items    []Item

	TransactionID string
	Tax           decimal.Decimal
	Shipping      decimal.Decimal
}

// Event is a named analytics payload.
type Event struct {
	Name    string
	Payload Payload
}

// NumItems returns the total quantity across the payload items.
func (p Payload) NumItems() int {
	n := 0
	for _, it := range p.Items {
		n += it.Quantity
	}
	return n
}
