// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
)

// Item is a single cart line. UnitPrice is the price seen when the product
// was added and may be stale by checkout time.
type Item struct {
	ProductID string          `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns UnitPrice * Quantity at full precision
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered set of items keyed by product id.
// A Cart is owned by its caller; it is not safe for concurrent mutation.
type Cart struct {
	Items []Item `json:"items"`
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Items: []Item{}}
}

// AddItem appends a new line or increases the quantity of an existing one.
// A non-positive quantity counts as 1.
func (c *Cart) AddItem(productID string, unitPrice decimal.Decimal, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}

	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity += quantity
		return
	}

	c.Items = append(c.Items, Item{
		ProductID: productID,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	})
}

// UpdateQuantity sets the quantity of a line, removing it when quantity <= 0.
// It reports whether the product was in the cart.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}

	c.Items[i].Quantity = quantity
	return true
}

// RemoveItem drops a line. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	c.UpdateQuantity(productID, 0)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []Item{}
}

// Total returns the optimistic total using the cart's own stored prices
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Len returns the number of distinct products
func (c *Cart) Len() int {
	return len(c.Items)
}

// ItemCount returns the sum of all quantities
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Get returns the line for productID, if present
func (c *Cart) Get(productID string) (Item, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// ProductIDs returns the distinct product ids in cart order
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() *Cart {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return &Cart{Items: items}
}

// normalize restores the cart invariants on data read from outside,
// merging duplicate lines and dropping non-positive quantities.
func (c *Cart) normalize() {
	items := c.Items
	c.Items = make([]Item, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 || item.ProductID == "" {
			continue
		}
		if i := c.indexOf(item.ProductID); i >= 0 {
			c.Items[i].Quantity += item.Quantity
			continue
		}
		c.Items = append(c.Items, item)
	}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
