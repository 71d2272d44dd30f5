package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"potluck/internal/cart"
)

// catalog is the built-in ingredient and kitchen-tool assortment. There is
// no store backend; orders are confirmed locally.
var catalog = []cart.Item{
	{ID: "1", Name: "Organic Tomatoes 1kg", PriceCents: 399, DeliveryTime: "2-4 hours"},
	{ID: "2", Name: "Premium Olive Oil 750ml", PriceCents: 1049, DeliveryTime: "Same day"},
	{ID: "3", Name: "Chef's Knife Set", PriceCents: 7299, DeliveryTime: "1-2 days"},
	{ID: "4", Name: "Himalayan Pink Salt 500g", PriceCents: 749, DeliveryTime: "Same day"},
	{ID: "5", Name: "Basmati Rice 5kg", PriceCents: 1299, DeliveryTime: "Same day"},
	{ID: "6", Name: "Cast Iron Skillet 26cm", PriceCents: 3499, DeliveryTime: "1-2 days"},
}

// Shop runs the interactive cart loop: list, add, rm, cart, checkout, quit.
func Shop(ctx context.Context, d *Deps) error {
	c := cart.New()
	r := bufio.NewReader(d.in())

	printCatalog(d.out())
	fmt.Fprintln(d.out(), "commands: list, add <id>, rm <id>, cart, checkout, quit")

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := prompt(d, r, "shop>")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "", "list":
			printCatalog(d.out())
		case "add":
			item, ok := findItem(arg)
			if !ok {
				fmt.Fprintf(d.out(), "no item %q\n", arg)
				continue
			}
			c.Add(item)
			fmt.Fprintf(d.out(), "added %s (%d in cart)\n", item.Name, c.ItemCount())
		case "rm":
			if err := c.Remove(arg); err != nil {
				fmt.Fprintf(d.out(), "%v\n", err)
				continue
			}
			fmt.Fprintf(d.out(), "removed (%d in cart)\n", c.ItemCount())
		case "cart":
			printCart(d.out(), c)
		case "checkout":
			if err := checkout(d, r, c); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				fmt.Fprintf(d.out(), "checkout failed: %v\n", err)
			}
		case "quit", "q", "exit":
			return nil
		default:
			fmt.Fprintf(d.out(), "unknown command %q\n", verb)
		}
	}
}

func checkout(d *Deps, r *bufio.Reader, c *cart.Cart) error {
	if c.ItemCount() == 0 {
		return cart.ErrEmptyCart
	}

	var addr cart.Address
	fields := []struct {
		label string
		dst   *string
	}{
		{"Full name", &addr.FullName},
		{"Phone number", &addr.PhoneNumber},
		{"Street address", &addr.Street},
		{"City", &addr.City},
		{"Postal code", &addr.PostalCode},
	}
	for _, f := range fields {
		value, err := prompt(d, r, f.label)
		if err != nil {
			return err
		}
		*f.dst = value
	}

	order, err := c.Checkout(addr, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintln(d.out(), "order placed:")
	for _, line := range order.Items {
		fmt.Fprintf(d.out(), "  %dx %-28s %s\n", line.Quantity, line.Item.Name, cents(line.Item.PriceCents*int64(line.Quantity)))
	}
	fmt.Fprintf(d.out(), "  total %s, delivering to %s, %s\n", cents(order.TotalCents), order.Address.Street, order.Address.City)
	return nil
}

func findItem(id string) (cart.Item, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return cart.Item{}, false
}

func printCatalog(w io.Writer) {
	for _, item := range catalog {
		fmt.Fprintf(w, "  [%s] %-28s %8s  (%s)\n", item.ID, item.Name, cents(item.PriceCents), item.DeliveryTime)
	}
}

func printCart(w io.Writer, c *cart.Cart) {
	lines := c.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	for _, line := range lines {
		fmt.Fprintf(w, "  %dx %-28s %s\n", line.Quantity, line.Item.Name, cents(line.Item.PriceCents*int64(line.Quantity)))
	}
	fmt.Fprintf(w, "  subtotal %s\n", cents(c.Subtotal()))
}

func cents(v int64) string {
	return "$" + strconv.FormatInt(v/100, 10) + "." + fmt.Sprintf("%02d", v%100)
}
