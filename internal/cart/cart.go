// Package cart implements the client-local shopping cart: a list of
// product snapshots with quantities, persisted to session storage and
// checked out through a WhatsApp deep link.
package cart

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"storefront/internal/clientstate"
)

const storageKey = "cartItems"

// Snapshot captures a product as it was when added to the cart. It is
// never refreshed against the store afterwards.
type Snapshot struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type LineItem struct {
	Snapshot
	Quantity int `json:"quantity"`
}

// Cart is an injected state container, one per user session.
type Cart struct {
	mu      sync.Mutex
	items   []LineItem
	open    bool
	storage clientstate.Storage
}

// New rehydrates the cart from storage. A corrupt stored value is
// discarded and treated as an empty cart.
func New(storage clientstate.Storage) *Cart {
	c := &Cart{storage: storage}

	if data, ok := storage.Load(storageKey); ok {
		var items []LineItem
		if err := json.Unmarshal(data, &items); err != nil {
			storage.Remove(storageKey)
		} else {
			c.items = items
		}
	}
	return c
}

func (c *Cart) persist() {
	data, err := json.Marshal(c.items)
	if err != nil {
		return
	}
	c.storage.Save(storageKey, data)
}

// Add appends a new line item, or accumulates quantity when the
// product is already in the cart. Quantities below one count as one.
func (c *Cart) Add(p Snapshot, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == p.ProductID {
			c.items[i].Quantity += quantity
			c.persist()
			return
		}
	}
	c.items = append(c.items, LineItem{Snapshot: p, Quantity: quantity})
	c.persist()
}

// Remove drops the line item; removing an unknown id is a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
	c.persist()
}

func (c *Cart) removeLocked(productID string) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity updates a line item; a quantity of zero or less removes
// it entirely.
func (c *Cart) SetQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(productID)
		c.persist()
		return
	}

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			break
		}
	}
	c.persist()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.storage.Remove(storageKey)
}

// Total sums snapshot price times quantity over all line items.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Count sums quantities, not distinct line items.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var count int
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
}

func (c *Cart) CloseCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Summary composes the human-readable order message sent at checkout.
func (c *Cart) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	b.WriteString("🛒 *ORDER SUMMARY*\n\n")
	for i, it := range c.items {
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, it.Name)
		fmt.Fprintf(&b, "   Price: $%.2f x %d = $%.2f\n\n",
			it.Price, it.Quantity, it.Price*float64(it.Quantity))
	}

	var total float64
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	fmt.Fprintf(&b, "💰 *TOTAL: $%.2f*\n\n", total)
	b.WriteString("Please process my order! I want to buy these products.")
	return b.String()
}

// Checkout builds the WhatsApp deep link for the current order, then
// clears the cart. The hand-off is fire-and-forget; no delivery
// confirmation is awaited. An empty cart checks out to ("", false).
func (c *Cart) Checkout(whatsappNumber string) (string, bool) {
	if c.Count() == 0 {
		return "", false
	}

	link := WhatsAppLink(whatsappNumber, c.Summary())
	c.Clear()
	c.CloseCart()
	return link, true
}

// BuyNowLink is the single-product variant used from a product page.
// It does not touch the cart.
func BuyNowLink(whatsappNumber string, p Snapshot, category string) string {
	message := fmt.Sprintf(
		"I want to buy this product:\n\n🛍️ *%s*\n💰 Price: $%.2f\n📦 Category: %s\n\nPlease process my order!",
		p.Name, p.Price, category)
	return WhatsAppLink(whatsappNumber, message)
}

func WhatsAppLink(number, message string) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}
