// Package cart is the local shopping cart and checkout state machine.
// Prices are integer cents; nothing here talks to the network.
package cart

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrUnknownItem = errors.New("item not in cart")
)

// Item is a purchasable ingredient kit or pantry product.
type Item struct {
	ID           string
	Name         string
	PriceCents   int64
	DeliveryTime string
}

// Address is the delivery address collected at checkout.
type Address struct {
	FullName    string
	PhoneNumber string
	Street      string
	City        string
	PostalCode  string
}

// Validate checks that all required fields are present and non-blank.
func (a Address) Validate() error {
	required := map[string]string{
		"fullName":    a.FullName,
		"phoneNumber": a.PhoneNumber,
		"street":      a.Street,
		"city":        a.City,
		"postalCode":  a.PostalCode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("address field %s is required", field)
		}
	}
	return nil
}

// Order is the result of a successful checkout.
type Order struct {
	Items      []Line
	TotalCents int64
	Address    Address
	PlacedAt   time.Time
}

type Line struct {
	Item     Item
	Quantity int
}

// Cart accumulates items and quantities.
type Cart struct {
	mux   sync.Mutex
	lines map[string]*Line
	order []string // insertion order of item ids
}

func New() *Cart {
	return &Cart{
		lines: make(map[string]*Line),
	}
}

// Add puts one more of the item in the cart.
func (c *Cart) Add(item Item) {
	c.mux.Lock()
	defer c.mux.Unlock()

	if line, ok := c.lines[item.ID]; ok {
		line.Quantity++
		return
	}
	c.lines[item.ID] = &Line{Item: item, Quantity: 1}
	c.order = append(c.order, item.ID)
}

// Remove takes one of the item out, dropping the line at zero.
func (c *Cart) Remove(itemID string) error {
	c.mux.Lock()
	defer c.mux.Unlock()

	line, ok := c.lines[itemID]
	if !ok {
		return ErrUnknownItem
	}
	line.Quantity--
	if line.Quantity <= 0 {
		delete(c.lines, itemID)
		for i, id := range c.order {
			if id == itemID {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Subtotal is the sum of price times quantity over all lines.
func (c *Cart) Subtotal() int64 {
	c.mux.Lock()
	defer c.mux.Unlock()

	var total int64
	for _, line := range c.lines {
		total += line.Item.PriceCents * int64(line.Quantity)
	}
	return total
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int {
	c.mux.Lock()
	defer c.mux.Unlock()

	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Lines returns the cart contents in the order items were first added.
func (c *Cart) Lines() []Line {
	c.mux.Lock()
	defer c.mux.Unlock()

	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Checkout validates the address, builds the order and empties the cart.
func (c *Cart) Checkout(addr Address, now time.Time) (Order, error) {
	if err := addr.Validate(); err != nil {
		return Order{}, err
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	if len(c.lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	order := Order{
		Address:  addr,
		PlacedAt: now,
	}
	for _, id := range c.order {
		line := *c.lines[id]
		order.Items = append(order.Items, line)
		order.TotalCents += line.Item.PriceCents * int64(line.Quantity)
	}

	c.lines = make(map[string]*Line)
	c.order = nil

	return order, nil
}
